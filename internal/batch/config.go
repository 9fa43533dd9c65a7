package batch

import (
	"io"
	"os"
)

// Config holds configuration for a batch run.
type Config struct {
	// WriteTextFiles writes each file's text to a sibling .txt file
	// instead of printing it to Stdout.
	WriteTextFiles bool

	// Workers bounds parallel file processing. 1 processes files
	// sequentially; values below 1 are treated as 1.
	Workers int

	Stdout io.Writer
	Stderr io.Writer
}

// DefaultConfig returns a sequential, stdout-printing configuration.
func DefaultConfig() Config {
	return Config{
		Workers: 1,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}
