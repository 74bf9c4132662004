// Package export renders fleet snapshots for scripts and spreadsheets.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/taxifleet/core/fleet"
)

// WriteJSON writes the snapshot to w in indented JSON.
func WriteJSON(w io.Writer, snap fleet.FleetSnapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// WriteCSV writes one row per taxi with a header line.
func WriteCSV(w io.Writer, snap fleet.FleetSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"taxi_id", "state", "x", "y", "passenger_id"}); err != nil {
		return err
	}
	for _, t := range snap.Taxis {
		rec := []string{
			t.ID,
			t.State,
			strconv.FormatFloat(t.Position.X, 'f', -1, 64),
			strconv.FormatFloat(t.Position.Y, 'f', -1, 64),
			t.PassengerID,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
