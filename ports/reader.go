package ports

import "hatebench/domain/corpus"

// DatasetReader loads a gold-standard annotated corpus from a path. The
// file format and category vocabulary are a stable upstream contract: the
// reader validates them but never alters them.
type DatasetReader interface {
	Read(path string) (*corpus.Dataset, error)
}
