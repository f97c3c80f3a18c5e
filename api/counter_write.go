package api

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// CounterWrite counts bytes written and prints the progress to Out if set
type CounterWrite struct {
	Total uint64
	Out   io.Writer
}

func (cw *CounterWrite) Write(p []byte) (int, error) {
	n := len(p)
	cw.Total += uint64(n)
	cw.PrintProgress()
	return n, nil
}

func (cw *CounterWrite) PrintProgress() {
	if cw.Out == nil {
		return
	}

	_, _ = fmt.Fprintf(cw.Out, "\r%s", strings.Repeat(" ", 50))
	_, _ = fmt.Fprintf(cw.Out, "\rDownloading... %s complete", humanize.Bytes(cw.Total))
}

func (cw *CounterWrite) String() string {
	return humanize.Bytes(cw.Total)
}
