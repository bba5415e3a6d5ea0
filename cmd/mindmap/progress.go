package main

import (
	"io"

	"github.com/gosuri/uiprogress"
)

// newProgress starts a progress bar of total steps written to w. The bar
// shows the current item name.
func newProgress(w io.Writer, total int, names []string) (*uiprogress.Progress, *uiprogress.Bar) {
	p := uiprogress.New()
	p.SetOut(w)
	p.Start()

	bar := p.AddBar(total)
	bar.AppendCompleted()
	bar.PrependElapsed()
	bar.AppendFunc(func(b *uiprogress.Bar) string {
		i := b.Current()
		if i <= 0 || i > len(names) {
			return ""
		}
		return names[i-1]
	})

	return p, bar
}
