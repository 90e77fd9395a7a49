package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/san-kum/orrery/internal/body"
	"github.com/san-kum/orrery/internal/sim"
	"github.com/san-kum/orrery/internal/vec"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var sampleHeader = []string{"tick", "time", "id", "kind", "x", "y", "z", "vx", "vy", "vz", "mass", "radius"}

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
	ID         string             `json:"id"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Planets    int                `json:"planets"`
	Ticks      int                `json:"ticks"`
	Respawns   int                `json:"respawns"`
	Degenerate int                `json:"degenerate"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes meta and the result's samples into a new run directory and
// returns the run id. meta.ID and meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	now := time.Now()
	if meta.Preset == "" {
		meta.Preset = "custom"
	}
	if err := s.Init(); err != nil {
		return "", err
	}
	runID, runDir, err := s.newRunDir(meta.Preset, now)
	if err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Ticks = result.Ticks
	meta.Respawns = result.Respawns
	meta.Degenerate = result.Degenerate
	meta.Metrics = result.Metrics

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), result.Samples); err != nil {
		return "", err
	}

	return runID, nil
}

// newRunDir creates a fresh directory, suffixing the id on collision.
func (s *Store) newRunDir(preset string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%s", preset, now.Format("20060102-150405"))
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s-%d", base, i)
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for _, s := range samples {
		b := s.Body
		row := []string{
			strconv.Itoa(s.Tick),
			ff(s.Time),
			strconv.FormatUint(uint64(b.ID), 10),
			b.Kind.String(),
			ff(b.Position.X), ff(b.Position.Y), ff(b.Position.Z),
			ff(b.Velocity.X), ff(b.Velocity.Y), ff(b.Velocity.Z),
			ff(b.Mass),
			ff(b.Radius),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
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

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSamples reads a run's body samples back. Malformed rows are skipped.
func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
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
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		sample, ok := parseSample(record)
		if !ok {
			continue
		}
		samples = append(samples, sample)
	}

	return samples, nil
}

func parseSample(record []string) (sim.Sample, bool) {
	if len(record) != len(sampleHeader) {
		return sim.Sample{}, false
	}

	tick, err := strconv.Atoi(record[0])
	if err != nil {
		return sim.Sample{}, false
	}
	id, err := strconv.ParseUint(record[2], 10, 64)
	if err != nil {
		return sim.Sample{}, false
	}
	kind, ok := body.ParseKind(record[3])
	if !ok {
		return sim.Sample{}, false
	}

	t, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return sim.Sample{}, false
	}
	var nums [8]float64
	for i, field := range record[4:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return sim.Sample{}, false
		}
		nums[i] = v
	}

	return sim.Sample{
		Tick: tick,
		Time: t,
		Body: body.Body{
			ID:       body.ID(id),
			Kind:     kind,
			Position: vec.New(nums[0], nums[1], nums[2]),
			Velocity: vec.New(nums[3], nums[4], nums[5]),
			Mass:     nums[6],
			Radius:   nums[7],
			Alive:    true,
		},
	}, true
}
