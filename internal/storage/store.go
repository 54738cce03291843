// Package storage keeps benchmark runs on disk: one directory per run with
// metadata.json and a frames.csv log.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/portalsim/internal/experiment"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Frames    int                `json:"frames"`
	FPS       int                `json:"fps"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Pointer   string             `json:"pointer"`
	Fragments int                `json:"fragments"`
	Ripples   int                `json:"ripples"`
	Metrics   map[string]float64 `json:"metrics"`
}

var frameHeader = []string{"frame", "elapsed_ms", "points", "nodes", "edges", "particles", "fragments"}

// Save writes one run. meta.ID, Timestamp, Seed and the counters are filled
// in from res.
func (s *Store) Save(meta RunMetadata, res *experiment.Result) (string, error) {
	meta.Timestamp = time.Now()
	meta.Seed = res.Seed
	meta.Frames = len(res.Frames)
	meta.Fragments = res.Fragments
	meta.Ripples = res.Ripples
	meta.Metrics = res.Metrics
	if meta.Preset == "" {
		meta.Preset = "default"
	}
	meta.ID = fmt.Sprintf("%s_%d_s%d", meta.Preset, meta.Timestamp.UnixNano(), res.Seed)
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write(frameHeader); err != nil {
		return "", err
	}
	for _, f := range res.Frames {
		row := []string{
			strconv.Itoa(f.Frame),
			strconv.FormatFloat(f.ElapsedMs, 'f', 3, 64),
			strconv.Itoa(f.Points),
			strconv.Itoa(f.Nodes),
			strconv.Itoa(f.Edges),
			strconv.Itoa(f.Particles),
			strconv.Itoa(f.Fragments),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadFrames reads a run's frame log. Malformed rows are skipped.
func (s *Store) LoadFrames(runID string) ([]experiment.FrameRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []experiment.FrameRecord{}, nil
	}

	frames := make([]experiment.FrameRecord, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(frameHeader) {
			continue
		}
		var ints [6]int
		ok := true
		for i, col := range []int{0, 2, 3, 4, 5, 6} {
			v, err := strconv.Atoi(record[col])
			if err != nil {
				ok = false
				break
			}
			ints[i] = v
		}
		elapsed, err := strconv.ParseFloat(record[1], 64)
		if !ok || err != nil {
			continue
		}
		frames = append(frames, experiment.FrameRecord{
			Frame:     ints[0],
			ElapsedMs: elapsed,
			Points:    ints[1],
			Nodes:     ints[2],
			Edges:     ints[3],
			Particles: ints[4],
			Fragments: ints[5],
		})
	}
	return frames, nil
}

// Series extracts one named column from a frame log for plotting.
func Series(frames []experiment.FrameRecord, column string) ([]float64, error) {
	pick := map[string]func(experiment.FrameRecord) float64{
		"particles": func(f experiment.FrameRecord) float64 { return float64(f.Particles) },
		"edges":     func(f experiment.FrameRecord) float64 { return float64(f.Edges) },
		"fragments": func(f experiment.FrameRecord) float64 { return float64(f.Fragments) },
		"points":    func(f experiment.FrameRecord) float64 { return float64(f.Points) },
		"nodes":     func(f experiment.FrameRecord) float64 { return float64(f.Nodes) },
	}[column]
	if pick == nil {
		return nil, fmt.Errorf("unknown column: %s", column)
	}
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = pick(f)
	}
	return out, nil
}
