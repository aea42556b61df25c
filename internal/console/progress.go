package console

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/vertextoedge/image-fetcher/internal/port"
)

// NewProgressFunc draws one byte-count bar per download on w. Unknown
// lengths render as a spinner.
func NewProgressFunc(w io.Writer) port.ProgressFunc {
	return func(rawURL string, total int64) port.ProgressSink {
		return progressbar.NewOptions64(
			total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetDescription("downloading"),
			progressbar.OptionThrottle(80*time.Millisecond),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(w)
			}),
		)
	}
}
