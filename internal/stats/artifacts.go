package stats

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"neuroevo/internal/model"
)

const (
	configFile = "config.json"
	seriesFile = "fitness.csv"
	bestFile   = "best.json"
)

// BestAgent is the exported champion of a run: enough to rebuild its network.
type BestAgent struct {
	ID         string    `json:"id"`
	Generation int       `json:"generation"`
	Fitness    float64   `json:"fitness"`
	Topology   []int     `json:"topology"`
	Activation string    `json:"activation"`
	Chromosome []float64 `json:"chromosome"`
}

type RunArtifacts struct {
	Config model.RunRecord         `json:"config"`
	Stats  []model.GenerationStats `json:"stats"`
	Best   BestAgent               `json:"best"`
}

func WriteRunArtifacts(baseDir string, artifacts RunArtifacts) (string, error) {
	if artifacts.Config.ID == "" {
		return "", fmt.Errorf("run id is required")
	}

	runDir := filepath.Join(baseDir, artifacts.Config.ID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, configFile), artifacts.Config); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, bestFile), artifacts.Best); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), artifacts.Stats); err != nil {
		return "", err
	}
	return runDir, nil
}

func ReadBestAgent(baseDir, runID string) (BestAgent, bool, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, runID, bestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return BestAgent{}, false, nil
		}
		return BestAgent{}, false, err
	}
	var best BestAgent
	if err := json.Unmarshal(data, &best); err != nil {
		return BestAgent{}, false, err
	}
	return best, true, nil
}

func writeSeries(path string, history []model.GenerationStats) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"generation", "size", "best", "mean", "min", "stddev"}); err != nil {
		return err
	}
	for _, s := range history {
		if err := writer.Write([]string{
			strconv.Itoa(s.Generation),
			strconv.Itoa(s.Size),
			formatFloat(s.Best),
			formatFloat(s.Mean),
			formatFloat(s.Min),
			formatFloat(s.StdDev),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func ReadSeries(baseDir, runID string) ([]model.GenerationStats, bool, error) {
	file, err := os.Open(filepath.Join(baseDir, runID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return []model.GenerationStats{}, true, nil
		}
		return nil, false, err
	}

	var out []model.GenerationStats
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, err
		}
		s, err := parseSeriesRow(record)
		if err != nil {
			return nil, false, err
		}
		out = append(out, s)
	}
	return out, true, nil
}

func parseSeriesRow(record []string) (model.GenerationStats, error) {
	if len(record) != 6 {
		return model.GenerationStats{}, fmt.Errorf("fitness series row must have 6 columns, got %d", len(record))
	}
	var s model.GenerationStats
	var err error
	if s.Generation, err = strconv.Atoi(record[0]); err != nil {
		return s, err
	}
	if s.Size, err = strconv.Atoi(record[1]); err != nil {
		return s, err
	}
	values := []*float64{&s.Best, &s.Mean, &s.Min, &s.StdDev}
	for i, dst := range values {
		if *dst, err = strconv.ParseFloat(record[i+2], 64); err != nil {
			return s, err
		}
	}
	return s, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}
