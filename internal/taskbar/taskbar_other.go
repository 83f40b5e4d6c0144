//go:build !windows && !(darwin && cgo) && !(linux && cgo)

package taskbar

import "github.com/awsl-project/dontcaught/internal/domain"

func setSkipTaskbar(_ string, _ bool) error {
	return domain.ErrHostUnsupported
}
