package ports

// LinkOpener hands a web link to the desktop's default handler
type LinkOpener interface {
	// Open opens an http or https URL in the default browser. It returns
	// once the handler has been launched.
	Open(rawURL string) error
}
