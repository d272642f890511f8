// Package catalog persists completed search runs to SQLite: the run
// parameters, the located peak, and the full stack volume, so past
// events can be reviewed and re-plotted without recomputing.
package catalog

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arraykit/backproject/stack"
)

// ErrNotFound is returned when a run id does not exist.
var ErrNotFound = errors.New("catalog: run not found")

// DB is a run catalog backed by a single SQLite file.
type DB struct {
	*sql.DB
}

// Open opens (creating if necessary) the catalog at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			created        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			method         TEXT,
			mode           TEXT,
			sample_rate    DOUBLE,
			start          TEXT,
			nx             BIGINT,
			ny             BIGINT,
			nt             BIGINT,
			nc             BIGINT,
			xs             TEXT,
			ys             TEXT,
			celerities     TEXT,
			peak_lon       DOUBLE,
			peak_lat       DOUBLE,
			peak_time      TEXT,
			peak_celerity  DOUBLE,
			peak_value     DOUBLE,
			peak_ix        BIGINT,
			peak_iy        BIGINT,
			peak_it        BIGINT,
			peak_ic        BIGINT,
			volume         BLOB
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: creating schema: %w", err)
	}

	return &DB{db}, nil
}

// Run is one catalogued search: its axes and the located peak, without
// the volume payload. Use VolumeData to fetch the stack values.
type Run struct {
	ID         int64
	Method     string
	Mode       string
	SampleRate float64
	Start      time.Time

	Nx, Ny, Nt, Nc int

	Xs         []float64
	Ys         []float64
	Celerities []float64

	Peak stack.Estimate
}

// SaveRun stores a completed search and its peak, returning the new
// run id.
func (db *DB) SaveRun(ctx context.Context, vol *stack.Volume, est stack.Estimate) (int64, error) {
	g := vol.Grid()
	nx, ny, nt, nc := vol.Dims()

	xs, err := json.Marshal(g.Xs)
	if err != nil {
		return 0, fmt.Errorf("catalog: encoding x axis: %w", err)
	}
	ys, err := json.Marshal(g.Ys)
	if err != nil {
		return 0, fmt.Errorf("catalog: encoding y axis: %w", err)
	}
	cels, err := json.Marshal(vol.Celerities())
	if err != nil {
		return 0, fmt.Errorf("catalog: encoding celerity axis: %w", err)
	}

	res, err := db.ExecContext(ctx,
		`INSERT INTO runs (
			method, mode, sample_rate, start, nx, ny, nt, nc,
			xs, ys, celerities,
			peak_lon, peak_lat, peak_time, peak_celerity, peak_value,
			peak_ix, peak_iy, peak_it, peak_ic, volume
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		vol.Method().String(), g.Mode.String(), vol.SampleRate(),
		vol.Start().UTC().Format(time.RFC3339Nano),
		nx, ny, nt, nc,
		string(xs), string(ys), string(cels),
		est.Lon, est.Lat, est.Time.UTC().Format(time.RFC3339Nano),
		est.Celerity, est.Value,
		est.XIndex, est.YIndex, est.TimeIndex, est.CelerityIndex,
		encodeVolume(vol.Data()),
	)
	if err != nil {
		return 0, fmt.Errorf("catalog: inserting run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("catalog: %w", err)
	}

	return id, nil
}

// Runs lists every catalogued run, oldest first, without volume
// payloads.
func (db *DB) Runs(ctx context.Context) ([]Run, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, method, mode, sample_rate, start, nx, ny, nt, nc,
			xs, ys, celerities,
			peak_lon, peak_lat, peak_time, peak_celerity, peak_value,
			peak_ix, peak_iy, peak_it, peak_ic
		FROM runs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: listing runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: listing runs: %w", err)
	}

	return out, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		r                  Run
		start, peakTime    string
		xs, ys, celerities string
	)

	err := rows.Scan(&r.ID, &r.Method, &r.Mode, &r.SampleRate, &start,
		&r.Nx, &r.Ny, &r.Nt, &r.Nc,
		&xs, &ys, &celerities,
		&r.Peak.Lon, &r.Peak.Lat, &peakTime, &r.Peak.Celerity, &r.Peak.Value,
		&r.Peak.XIndex, &r.Peak.YIndex, &r.Peak.TimeIndex, &r.Peak.CelerityIndex)
	if err != nil {
		return Run{}, fmt.Errorf("catalog: scanning run: %w", err)
	}

	if r.Start, err = time.Parse(time.RFC3339Nano, start); err != nil {
		return Run{}, fmt.Errorf("catalog: run %d start: %w", r.ID, err)
	}
	if r.Peak.Time, err = time.Parse(time.RFC3339Nano, peakTime); err != nil {
		return Run{}, fmt.Errorf("catalog: run %d peak time: %w", r.ID, err)
	}

	for _, axis := range []struct {
		raw string
		dst *[]float64
	}{
		{xs, &r.Xs}, {ys, &r.Ys}, {celerities, &r.Celerities},
	} {
		if err := json.Unmarshal([]byte(axis.raw), axis.dst); err != nil {
			return Run{}, fmt.Errorf("catalog: run %d axis: %w", r.ID, err)
		}
	}

	return r, nil
}

// VolumeData fetches the flat stack values of one run, in the engine's
// [celerity][y][x][time] order.
func (db *DB) VolumeData(ctx context.Context, id int64) ([]float64, error) {
	var blob []byte
	err := db.QueryRowContext(ctx, `SELECT volume FROM runs WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: reading volume %d: %w", id, err)
	}

	return decodeVolume(blob)
}

// encodeVolume packs float64 samples as little-endian bytes.
func encodeVolume(data []float64) []byte {
	out := make([]byte, 8*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint64(out[8*i:], math.Float64bits(v))
	}

	return out
}

func decodeVolume(blob []byte) ([]float64, error) {
	if len(blob)%8 != 0 {
		return nil, fmt.Errorf("catalog: volume blob length %d is not a multiple of 8", len(blob))
	}

	out := make([]float64, len(blob)/8)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(blob[8*i:]))
	}

	return out, nil
}
