package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jsphweid/quint/barmap"
	"github.com/jsphweid/quint/bartime"
	qerrors "github.com/jsphweid/quint/errors"
	"github.com/jsphweid/quint/model"
	"github.com/spf13/cobra"
)

var (
	fitsCapacity string
	fitsEntries  []string
	fitsAt       string
	fitsDur      string
)

func init() {
	fitsCmd.Flags().StringVar(&fitsCapacity, "capacity", "", "bar capacity, defaults to QUINT_DEFAULT_CAPACITY")
	fitsCmd.Flags().StringSliceVar(&fitsEntries, "entry", nil, "stored value as offset:duration, repeatable")
	fitsCmd.Flags().StringVar(&fitsAt, "at", "0", "offset to ask about")
	fitsCmd.Flags().StringVar(&fitsDur, "dur", "0", "duration to ask about")
	rootCmd.AddCommand(fitsCmd)
}

var fitsCmd = &cobra.Command{
	Use:   "fits",
	Short: "Checks whether a duration fits at an offset",
	Long: `Fills a bar with the given entries and reports how long the previous
value still lasts at --at, how much room there is until the next value and
whether --dur fits there.`,
	Example: "quint fits --capacity 4/1 --entry 2:1/2 --at 3/2 --dur 1/2",
	RunE: func(cmd *cobra.Command, args []string) error {
		capacity := fitsCapacity
		if capacity == "" {
			capacity = cfg.DefaultCapacity
		}
		var entries []model.EntryDTO
		for _, e := range fitsEntries {
			offset, duration, ok := strings.Cut(e, ":")
			if !ok {
				return qerrors.WithMetadata(qerrors.CodeInvalidArgument,
					fmt.Sprintf("entry %q is not offset:duration", e), map[string]string{"entry": e})
			}
			entries = append(entries, model.EntryDTO{Offset: offset, Duration: duration})
		}
		res, err := fits(model.FitsRequestBody{
			Capacity: capacity,
			Entries:  entries,
			Offset:   fitsAt,
			Duration: fitsDur,
		})
		if err != nil {
			return err
		}
		printFits(cmd.OutOrStdout(), res)
		return nil
	},
}

// indexedError points at the entry or note that failed.
type indexedError struct {
	index int
	err   error
}

func (e *indexedError) Error() string {
	return fmt.Sprintf("item %d: %v", e.index, e.err)
}

func (e *indexedError) Unwrap() error {
	return e.err
}

func parseTime(field, s string) (*bartime.Time, error) {
	t, err := bartime.Parse(s)
	if err != nil {
		return nil, qerrors.Wrap(qerrors.CodeInvalidArgument, fmt.Sprintf("%s: %v", field, err), err)
	}
	return t, nil
}

func fits(req model.FitsRequestBody) (model.FitsResponse, error) {
	var res model.FitsResponse
	capacity, err := parseTime("capacity", req.Capacity)
	if err != nil {
		return res, err
	}
	m, err := barmap.New[*bartime.Time](capacity)
	if err != nil {
		return res, err
	}
	for i, e := range req.Entries {
		offset, err := parseTime("offset", e.Offset)
		if err != nil {
			return res, &indexedError{i, err}
		}
		duration, err := parseTime("duration", e.Duration)
		if err != nil {
			return res, &indexedError{i, err}
		}
		if _, _, err := m.Put(offset, duration); err != nil {
			return res, &indexedError{i, err}
		}
	}

	offset, err := parseTime("offset", req.Offset)
	if err != nil {
		return res, err
	}
	duration, err := parseTime("duration", req.Duration)
	if err != nil {
		return res, err
	}
	if err := m.CheckRange(offset); err != nil {
		return res, err
	}
	lasting, next, err := m.Room(offset)
	if err != nil {
		return res, err
	}

	res.Lasting = lasting.String()
	res.Next = next.String()
	res.Length = m.Length().String()
	if err := m.CheckFits(offset, duration); err != nil {
		res.Reason = err.Error()
	} else {
		res.Fits = true
	}
	return res, nil
}

func printFits(w io.Writer, res model.FitsResponse) {
	fmt.Fprintf(w, "lasting: %v\n", res.Lasting)
	fmt.Fprintf(w, "next: %v\n", res.Next)
	fmt.Fprintf(w, "length: %v\n", res.Length)
	fmt.Fprintf(w, "fits: %v\n", res.Fits)
	if res.Reason != "" {
		fmt.Fprintf(w, "reason: %v\n", res.Reason)
	}
}
