package action

// MaxSearchResults caps search_files output. Truncation is not reported to
// the user.
const MaxSearchResults = 20

const (
	OpenBrowser     = "open_browser"
	Search          = "search"
	LaunchApp       = "launch_app"
	ListDirectory   = "list_directory"
	ReadFile        = "read_file"
	WriteFile       = "write_file"
	DeleteItem      = "delete_item"
	MoveItem        = "move_item"
	CreateDirectory = "create_directory"
	SearchFiles     = "search_files"
)

func pathParam(desc string) Param {
	return Param{Name: "path", Description: desc}
}

func optionalPath(desc string) Param {
	return Param{Name: "path", Description: desc, Optional: true, Default: "."}
}

// Builtin returns the fixed catalog of desktop actions.
func Builtin() *Catalog {
	return MustCatalog(
		&Descriptor{
			Name:        OpenBrowser,
			Description: "Open the web browser on the Google home page. Do NOT use this if you are also calling search.",
			failure:     "opening browser",
			run:         openBrowser,
		},
		&Descriptor{
			Name:        Search,
			Description: "Search something on Google. This opens the browser by itself, never call open_browser for a search request.",
			Params: []Param{
				{Name: "query", Description: "What to search for"},
			},
			Excludes: []string{OpenBrowser},
			failure:  "searching the web",
			run:      searchWeb,
		},
		&Descriptor{
			Name:        LaunchApp,
			Description: "Open a desktop application by name",
			Params: []Param{
				{Name: "app_name", Description: "Application name, e.g. 'Calculator' or 'firefox'"},
			},
			failure: "opening application",
			run:     launchApp,
		},
		&Descriptor{
			Name:        ListDirectory,
			Description: "List files and directories in a given path. Defaults to current directory.",
			Params: []Param{
				optionalPath("Directory to list"),
			},
			failure: "listing directory",
			run:     listDirectory,
		},
		&Descriptor{
			Name:        ReadFile,
			Description: "Read the content of a file",
			Params: []Param{
				pathParam("File to read"),
			},
			failure: "reading file",
			run:     readFile,
		},
		&Descriptor{
			Name:        WriteFile,
			Description: "Write content to a file. Creates if not exists, overwrites if exists.",
			Params: []Param{
				pathParam("File to write"),
				{Name: "content", Description: "Full text to store in the file"},
			},
			failure: "writing to file",
			run:     writeFile,
		},
		&Descriptor{
			Name:        DeleteItem,
			Description: "Delete a file or directory",
			Params: []Param{
				pathParam("File or directory to delete"),
			},
			failure: "deleting item",
			run:     deleteItem,
		},
		&Descriptor{
			Name:        MoveItem,
			Description: "Move or rename a file or directory",
			Params: []Param{
				{Name: "src", Description: "Existing file or directory"},
				{Name: "dst", Description: "New location or name"},
			},
			failure: "moving item",
			run:     moveItem,
		},
		&Descriptor{
			Name:        CreateDirectory,
			Description: "Create a new directory",
			Params: []Param{
				pathParam("Directory to create, parents included"),
			},
			failure: "creating directory",
			run:     createDirectory,
		},
		&Descriptor{
			Name:        SearchFiles,
			Description: "Search for files matching a glob pattern in a path (recursive)",
			Params: []Param{
				{Name: "pattern", Description: "Glob pattern such as '*.txt'"},
				optionalPath("Directory to search in"),
			},
			failure: "searching files",
			run:     searchFiles,
		},
	)
}
