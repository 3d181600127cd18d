package telemetry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/falconsim/falconsim/internal/dynamics"
)

// Record is one telemetry sample: a wall-clock timestamp plus the state and
// control scalars of the aircraft at that instant.
type Record struct {
	Timestamp float64 // seconds since Unix epoch

	North, East, Down float64 // NED position, m
	Vx, Vy, Vz        float64 // body velocity, m/s
	Roll, Pitch, Yaw  float64 // rad

	Throttle, Aileron, Elevator, Rudder float64
}

// NumFields is the number of scalars in the wire record.
const NumFields = 14

// NewRecord builds a record from a state/controls snapshot.
func NewRecord(timestamp float64, s dynamics.State, c dynamics.Controls) Record {
	return Record{
		Timestamp: timestamp,
		North:     s.Position.X,
		East:      s.Position.Y,
		Down:      s.Position.Z,
		Vx:        s.Velocity.X,
		Vy:        s.Velocity.Y,
		Vz:        s.Velocity.Z,
		Roll:      s.Orientation.X,
		Pitch:     s.Orientation.Y,
		Yaw:       s.Orientation.Z,
		Throttle:  c.Throttle,
		Aileron:   c.Aileron,
		Elevator:  c.Elevator,
		Rudder:    c.Rudder,
	}
}

func (r Record) fields() [NumFields]float64 {
	return [NumFields]float64{
		r.Timestamp,
		r.North, r.East, r.Down,
		r.Vx, r.Vy, r.Vz,
		r.Roll, r.Pitch, r.Yaw,
		r.Throttle, r.Aileron, r.Elevator, r.Rudder,
	}
}

// Marshal serializes the record as a comma-delimited line of fixed-precision
// decimals, the wire format consumed by telemetry clients.
func (r Record) Marshal() string {
	var b strings.Builder
	for i, v := range r.fields() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
	}
	return b.String()
}

// ParseRecord decodes a wire-format line back into a Record.
func ParseRecord(line string) (Record, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != NumFields {
		return Record{}, fmt.Errorf("telemetry: expected %d fields, got %d", NumFields, len(parts))
	}

	var vals [NumFields]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return Record{}, fmt.Errorf("telemetry: field %d: %w", i, err)
		}
		vals[i] = v
	}

	return Record{
		Timestamp: vals[0],
		North:     vals[1], East: vals[2], Down: vals[3],
		Vx: vals[4], Vy: vals[5], Vz: vals[6],
		Roll: vals[7], Pitch: vals[8], Yaw: vals[9],
		Throttle: vals[10], Aileron: vals[11], Elevator: vals[12], Rudder: vals[13],
	}, nil
}
