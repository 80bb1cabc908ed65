package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ModelFeatures is the feature order every artifact must declare.
var ModelFeatures = []string{"table_number", "guests", "day_of_week", "hour"}

// ErrNoModel is returned by a nil *ForestModel.
var ErrNoModel = errors.New("availability: no model loaded")

// LoadError reports a predictor artifact that could not be read or validated.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("availability: load model from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Node is one node of a decision tree. Leaves carry Class; split nodes send
// samples with x[Feature] <= Threshold to Left, the rest to Right.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Class     *int    `json:"class,omitempty"`
}

// Tree is a flat list of nodes rooted at index 0.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

type artifact struct {
	Version  int      `json:"version"`
	Features []string `json:"features"`
	Classes  int      `json:"classes"`
	Trees    []Tree   `json:"trees"`
}

// ForestModel is an immutable decision-tree ensemble. It is read-only after
// loading and safe for concurrent reads.
type ForestModel struct {
	classes int
	trees   []Tree
}

// LoadModel decodes and validates a JSON forest artifact.
func LoadModel(r io.Reader) (*ForestModel, error) {
	return loadModel("reader", r)
}

// LoadModelFile loads an artifact from disk.
func LoadModelFile(path string) (*ForestModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()
	return loadModel(path, f)
}

// S3GetAPI is the subset of the S3 client used to fetch artifacts.
type S3GetAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// LoadModelFromS3 fetches an artifact from s3://bucket/key.
func LoadModelFromS3(ctx context.Context, client S3GetAPI, bucket, key string) (*ForestModel, error) {
	source := fmt.Sprintf("s3://%s/%s", bucket, key)
	if client == nil {
		return nil, &LoadError{Source: source, Err: errors.New("s3 client not configured")}
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	defer out.Body.Close()
	return loadModel(source, out.Body)
}

func loadModel(source string, r io.Reader) (*ForestModel, error) {
	var a artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("decode: %w", err)}
	}
	if err := a.validate(); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	return &ForestModel{classes: a.Classes, trees: a.Trees}, nil
}

func (a artifact) validate() error {
	if len(a.Features) != len(ModelFeatures) {
		return fmt.Errorf("expected %d features, got %d", len(ModelFeatures), len(a.Features))
	}
	for i, name := range ModelFeatures {
		if a.Features[i] != name {
			return fmt.Errorf("feature %d: expected %q, got %q", i, name, a.Features[i])
		}
	}
	if a.Classes < 2 {
		return fmt.Errorf("need at least 2 classes, got %d", a.Classes)
	}
	if len(a.Trees) == 0 {
		return errors.New("no trees")
	}
	for t, tree := range a.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d: no nodes", t)
		}
		for i, n := range tree.Nodes {
			if n.Class != nil {
				if *n.Class < 0 || *n.Class >= a.Classes {
					return fmt.Errorf("tree %d node %d: class %d out of range", t, i, *n.Class)
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= len(ModelFeatures) {
				return fmt.Errorf("tree %d node %d: feature %d out of range", t, i, n.Feature)
			}
			// Children must point forward so every walk terminates.
			if n.Left <= i || n.Left >= len(tree.Nodes) || n.Right <= i || n.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: invalid children %d/%d", t, i, n.Left, n.Right)
			}
		}
	}
	return nil
}

// Trees returns the ensemble size.
func (m *ForestModel) Trees() int {
	if m == nil {
		return 0
	}
	return len(m.trees)
}

// Predict returns the majority class; ties go to the lower class.
func (m *ForestModel) Predict(f Features) int {
	if m == nil {
		return 0
	}
	x := f.vector()
	votes := make([]int, m.classes)
	for _, tree := range m.trees {
		votes[tree.classify(x)]++
	}
	best := 0
	for class := 1; class < len(votes); class++ {
		if votes[class] > votes[best] {
			best = class
		}
	}
	return best
}

// IsOccupied reports a nonzero predicted class as occupied.
func (m *ForestModel) IsOccupied(ctx context.Context, f Features) (bool, error) {
	if m == nil {
		return false, ErrNoModel
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return m.Predict(f) != 0, nil
}

func (t Tree) classify(x [4]float64) int {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Class != nil {
			return *n.Class
		}
		if x[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
