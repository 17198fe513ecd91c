package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunRecord is the configuration a run was started with.
type RunRecord struct {
	VersionedRecord
	ID             string  `json:"id"`
	Scape          string  `json:"scape"`
	Topology       []int   `json:"topology"`
	Activation     string  `json:"activation"`
	PopulationSize int     `json:"population_size"`
	Generations    int     `json:"generations"`
	Seed           int64   `json:"seed"`
	Selection      string  `json:"selection"`
	TournamentSize int     `json:"tournament_size,omitempty"`
	Crossover      string  `json:"crossover"`
	Mutation       string  `json:"mutation"`
	MutationChance float64 `json:"mutation_chance"`
	MutationCoeff  float64 `json:"mutation_coeff"`
	Elitism        int     `json:"elitism"`
	FitnessGoal    float64 `json:"fitness_goal,omitempty"`
}

// Member is one scored individual in a population snapshot.
type Member struct {
	ID         string    `json:"id"`
	Fitness    float64   `json:"fitness"`
	Chromosome []float64 `json:"chromosome"`
}

// PopulationSnapshot is a scored generation. Chromosomes use the flat
// layer/neuron/bias/weights layout and are rebuilt against Topology.
type PopulationSnapshot struct {
	VersionedRecord
	ID         string   `json:"id"`
	RunID      string   `json:"run_id"`
	Generation int      `json:"generation"`
	Topology   []int    `json:"topology"`
	Activation string   `json:"activation"`
	Members    []Member `json:"members"`
}

type GenerationStats struct {
	Generation int     `json:"generation"`
	Size       int     `json:"size"`
	Best       float64 `json:"best"`
	Mean       float64 `json:"mean"`
	Min        float64 `json:"min"`
	StdDev     float64 `json:"stddev"`
}
