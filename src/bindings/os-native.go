package bindings

import (
	"github.com/sag-enhanced/webshell/src/helper"
)

func (b *Bindings) Open(target string) error {
	url, err := helper.SanitizeURL(target)
	if err != nil {
		return err
	}
	b.logger.Info("opening URL", "url", url)
	// re-assembled url, not the raw input
	return helper.Open(url, b.options)
}
