package bartime

import (
	"strconv"
	"strings"

	qerrors "github.com/jsphweid/quint/errors"
)

// Parse reads "n/d" or "n" as written by String.
func Parse(s string) (*Time, error) {
	s = strings.TrimSpace(s)
	numText, denText, hasDen := strings.Cut(s, "/")
	num, err := strconv.ParseInt(strings.TrimSpace(numText), 10, 64)
	if err != nil {
		return nil, qerrors.Wrap(qerrors.CodeInvalidArgument, "invalid bar time numerator in "+strconv.Quote(s), err)
	}
	den := int64(1)
	if hasDen {
		den, err = strconv.ParseInt(strings.TrimSpace(denText), 10, 64)
		if err != nil {
			return nil, qerrors.Wrap(qerrors.CodeInvalidArgument, "invalid bar time denominator in "+strconv.Quote(s), err)
		}
	}
	return Of(num, den)
}
