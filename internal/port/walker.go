package port

// FileWalker lists and locates data files under a directory.
type FileWalker interface {
	Walk(root string) ([]FileInfo, error)

	// Find returns the first file matching patterns, tried in order.
	Find(root string, patterns []string) (string, error)
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}
