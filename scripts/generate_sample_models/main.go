// Command generate_sample_models writes a complete set of small, hand-built
// model artifacts so the server and CLI can be tried without trained models.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"hiring-assistant/internal/common"
	"hiring-assistant/internal/ml"
	"hiring-assistant/internal/storage"
)

func main() {
	var (
		outDir  = flag.String("out", common.DefaultModelsDir, "Directory to write artifact files into")
		storeDB = flag.String("store", "", "Also import the artifacts into this model store")
	)
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	artifacts, err := sampleArtifacts()
	if err != nil {
		log.Fatalf("Failed to build models: %v", err)
	}

	var store *storage.Store
	if *storeDB != "" {
		store, err = storage.New(*storeDB)
		if err != nil {
			log.Fatalf("Failed to open model store: %v", err)
		}
		defer store.Close()
	}

	for name, data := range artifacts {
		path := filepath.Join(*outDir, common.DefaultModelFiles[name])
		if err := os.WriteFile(path, data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		fmt.Printf("✓ %-20s %s\n", name, path)

		if store != nil {
			if _, err := store.PutArtifact(name, data); err != nil {
				log.Fatalf("Failed to import %s: %v", name, err)
			}
		}
	}
}

// sampleScore is the performance regressor every sample classifier is built around.
var sampleScore = ml.LinearModel{Intercept: 0, Coefficients: []float64{0.5, 0.4, 2.5, 2.5}}

// sampleLabel buckets a score: <= 50 Reject, <= 75 Hold, otherwise Hire.
func sampleLabel(score float64) int {
	switch {
	case score <= 50:
		return 0
	case score <= 75:
		return 1
	default:
		return 2
	}
}

// sampleArtifacts returns encoded artifacts keyed by registry name.
func sampleArtifacts() (map[string][]byte, error) {
	classes := []int{0, 1, 2}
	scoreOnly := [][]float64{
		{0, 0, 0, 0, -0.2},
		{0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0.2},
	}

	models := map[string]struct {
		kind  string
		model any
	}{
		common.ModelRegression: {ml.KindLinear, sampleScore},
		common.ModelDecisionTree: {ml.KindTree, ml.TreeModel{
			NumFeatures: 5,
			Features:    []int{4, -2, 4, -2, -2},
			Thresholds:  []float64{50, 0, 75, 0, 0},
			Left:        []int{1, -1, 3, -1, -1},
			Right:       []int{2, -1, 4, -1, -1},
			Values:      []float64{0, 0, 0, 1, 2},
		}},
		common.ModelLogisticRegression: {ml.KindLogistic, ml.LogisticModel{
			Classes:      classes,
			Coefficients: scoreOnly,
			Intercepts:   []float64{10, 0, -15},
		}},
		common.ModelSVM: {ml.KindSVM, ml.SVMModel{
			Classes: classes,
			Weights: scoreOnly,
			Biases:  []float64{10, 0, -15},
		}},
		common.ModelNaiveBayes: {ml.KindNaiveBayes, ml.NaiveBayesModel{
			Classes: classes,
			Priors:  []float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
			Means: [][]float64{
				{2, 55, 4, 4, 40},
				{5, 75, 6, 7, 65},
				{9, 85, 8, 8, 85},
			},
			Variances: [][]float64{
				{9, 100, 2, 2, 100},
				{9, 100, 2, 2, 100},
				{9, 100, 2, 2, 100},
			},
		}},
		common.ModelKNN: {ml.KindKNN, knnFromGrid()},
	}

	out := make(map[string][]byte, len(models))
	for name, m := range models {
		data, err := ml.EncodeArtifact(m.kind, m.model)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

// knnFromGrid labels a grid of synthetic candidates with the sample regressor.
func knnFromGrid() ml.KNNModel {
	knn := ml.KNNModel{K: 3}
	for _, exp := range []float64{1, 5, 10, 20} {
		for _, test := range []float64{40, 60, 80, 95} {
			for _, interview := range []float64{3, 6, 9} {
				for _, comm := range []float64{3, 6, 9} {
					x := []float64{exp, test, interview, comm}
					score, _ := sampleScore.Predict(x)
					knn.Points = append(knn.Points, append(x, score))
					knn.Labels = append(knn.Labels, sampleLabel(score))
				}
			}
		}
	}
	return knn
}
