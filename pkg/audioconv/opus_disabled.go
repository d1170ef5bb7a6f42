//go:build !opus

package audioconv

import (
	"errors"
	"io"
)

func decodeOpus(io.ReadSeeker) (Raw, error) {
	return Raw{}, errors.New("opus support not built in (build with -tags opus)")
}
