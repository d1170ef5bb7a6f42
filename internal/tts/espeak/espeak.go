// Package espeak speaks through libespeak-ng with synchronous playback.
package espeak

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

static int
espeak_say(const char *text, const char *voice, int rate)
{
	if (!text)
	{ return -1; }

	if (espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0) < 0)
	{ return -2; }

	espeak_VOICE specs = { .languages = voice };
	espeak_SetVoiceByProperties(&specs);
	espeak_SetParameter(espeakRATE, rate, 0);

	espeak_Synth(text, 500, 0, 0, 0, espeakCHARS_AUTO, NULL, NULL);
	espeak_Synchronize();
	espeak_Terminate();

	return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"
)

const DefaultRate = 175

// Speaker serialises calls, libespeak-ng keeps global state.
type Speaker struct {
	Voice string // language code, "en" when empty
	Rate  int    // words per minute

	mu sync.Mutex
}

func New(voice string, rate int) *Speaker {
	return &Speaker{Voice: voice, Rate: rate}
}

func (s *Speaker) Speak(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	voice, rate := s.Voice, s.Rate
	if voice == "" {
		voice = "en"
	}
	if rate <= 0 {
		rate = DefaultRate
	}

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))
	cvoice := C.CString(voice)
	defer C.free(unsafe.Pointer(cvoice))

	s.mu.Lock()
	defer s.mu.Unlock()

	if rc := C.espeak_say(ctext, cvoice, C.int(rate)); rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}
	return nil
}
