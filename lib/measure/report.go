package measure

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteText prints the three measurements. Nothing is printed without a result.
func WriteText(w io.Writer, r *MeasurementResult) error {
	if r == nil {
		return nil
	}

	_, err := fmt.Fprintf(w,
		"Payload Size Before Compression: %.2f MB\n"+
			"Payload Size After Compression: %.2f MB\n"+
			"Time Taken to Compress Data: %.2f seconds\n",
		r.BeforeSizeMB, r.AfterSizeMB, r.ElapsedSeconds)
	return err
}

// WriteJSON writes v as indented JSON to w
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
