package dataset

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/pitchstats/matchform/internal/usecase"
)

// Writer streams a feature matrix to a CSV file plus a small JSON metadata
// sidecar at <path>.meta.json.
type Writer struct {
	path string
}

func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

type metadata struct {
	Columns     int       `json:"columns"`
	Rows        int       `json:"rows"`
	ExactScore  bool      `json:"exact_score"`
	GeneratedAt time.Time `json:"generated_at"`
}

func (w *Writer) Write(ds *usecase.Dataset) error {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()

	out := bufio.NewWriter(f)
	if err := writeHeader(out, ds.Columns); err != nil {
		return err
	}
	for i := range ds.Rows {
		if err := writeRow(out, ds, &ds.Rows[i]); err != nil {
			return fmt.Errorf("dataset row %d: %w", i, err)
		}
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("flush dataset file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close dataset file: %w", err)
	}

	return w.writeMetadata(ds)
}

func writeHeader(out *bufio.Writer, columns []string) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for i, col := range columns {
		if i > 0 {
			buf.B = append(buf.B, ',')
		}
		buf.B = append(buf.B, col...)
	}
	buf.B = append(buf.B, '\n')
	if _, err := out.Write(buf.B); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	return nil
}

func writeRow(out *bufio.Writer, ds *usecase.Dataset, row *usecase.DatasetRow) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	for _, v := range row.Home {
		buf.B = strconv.AppendFloat(buf.B, v, 'g', -1, 64)
		buf.B = append(buf.B, ',')
	}
	for _, v := range row.Away {
		buf.B = strconv.AppendFloat(buf.B, v, 'g', -1, 64)
		buf.B = append(buf.B, ',')
	}
	if ds.ExactScore {
		buf.B = strconv.AppendInt(buf.B, int64(row.HomeGoals), 10)
		buf.B = append(buf.B, ',')
		buf.B = strconv.AppendInt(buf.B, int64(row.AwayGoals), 10)
	} else {
		buf.B = append(buf.B, label(row)...)
	}
	buf.B = append(buf.B, '\n')

	_, err := out.Write(buf.B)
	return err
}

// label classifies the final score from the home perspective.
func label(row *usecase.DatasetRow) string {
	switch {
	case row.HomeGoals > row.AwayGoals:
		return "H"
	case row.HomeGoals < row.AwayGoals:
		return "A"
	default:
		return "X"
	}
}

func (w *Writer) writeMetadata(ds *usecase.Dataset) error {
	payload, err := sonic.MarshalIndent(metadata{
		Columns:     len(ds.Columns),
		Rows:        len(ds.Rows),
		ExactScore:  ds.ExactScore,
		GeneratedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset metadata: %w", err)
	}
	if err := os.WriteFile(w.path+".meta.json", payload, 0o644); err != nil {
		return fmt.Errorf("write dataset metadata: %w", err)
	}
	return nil
}
