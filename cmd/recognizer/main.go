// Command recognizer trains one sequence model per category and scores
// unlabeled sequences against the trained collection.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	recognizer "github.com/linxinzhe/AIND-Recognizer"
	"github.com/linxinzhe/AIND-Recognizer/dataset"
	"github.com/linxinzhe/AIND-Recognizer/model/hmm"
	"github.com/linxinzhe/AIND-Recognizer/selector"
)

var configFile string

func main() {

	root := &cobra.Command{
		Use:           "recognizer",
		Short:         "model selection and recognition for labeled sequence data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "YAML configuration file")
	root.PersistentFlags().AddGoFlagSet(flag.CommandLine) // glog flags
	root.AddCommand(trainCmd(), recognizeCmd())

	if e := root.Execute(); e != nil {
		recognizer.Fatal(e)
	}
	glog.Flush()
}

// loadConfig reads the config file when one was given, otherwise returns
// the defaults. Command line flags override the file.
func loadConfig() (recognizer.Config, error) {

	if configFile == "" {
		return recognizer.DefaultConfig(), nil
	}
	return recognizer.ReadConfigFile(configFile)
}

func trainCmd() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "train",
		Short: "select and train a model for every category in the corpus",
		RunE: func(cmd *cobra.Command, args []string) error {

			config, e := loadConfig()
			if e != nil {
				return e
			}
			fs := cmd.Flags()
			if fs.Changed("strategy") {
				config.Strategy, _ = fs.GetString("strategy")
			}
			if fs.Changed("min-states") {
				config.MinStates, _ = fs.GetInt("min-states")
			}
			if fs.Changed("max-states") {
				config.MaxStates, _ = fs.GetInt("max-states")
			}
			if fs.Changed("n-constant") {
				config.NConstant, _ = fs.GetInt("n-constant")
			}
			if fs.Changed("seed") {
				config.Seed, _ = fs.GetInt64("seed")
			}
			if fs.Changed("corpus") {
				config.CorpusFile, _ = fs.GetString("corpus")
			}
			if fs.Changed("models") {
				config.ModelFile, _ = fs.GetString("models")
			}
			return train(config)
		},
	}
	fs := cmd.Flags()
	fs.String("strategy", "", "selection strategy (constant, bic, dic, cv)")
	fs.Int("min-states", 0, "smallest candidate state count")
	fs.Int("max-states", 0, "largest candidate state count")
	fs.Int("n-constant", 0, "state count for the constant strategy")
	fs.Int64("seed", 0, "random seed for training")
	fs.String("corpus", "", "training corpus file (JSON records, one per line)")
	fs.String("models", "", "output model collection file")
	return cmd
}

func train(config recognizer.Config) error {

	if config.CorpusFile == "" {
		return fmt.Errorf("train: no corpus file")
	}
	if config.ModelFile == "" {
		return fmt.Errorf("train: no output model file")
	}
	corpus, e := dataset.ReadCorpusFile(config.CorpusFile)
	if e != nil {
		return e
	}
	glog.Infof("training %d categories with strategy [%s]", corpus.Len(), config.Strategy)

	models := make(map[string]*hmm.Model)
	for _, category := range corpus.Categories() {
		s, e := selector.New(config.Strategy, corpus, category, config.SelectorOptions()...)
		if e != nil {
			return e
		}
		m, e := s.Select()
		if errors.Is(e, selector.ErrNoModel) {
			glog.Warningf("no viable model for category [%s], skipping", category)
			continue
		}
		if e != nil {
			return e
		}
		hm, ok := m.(*hmm.Model)
		if !ok {
			return fmt.Errorf("train: selected model for [%s] has unexpected type %T", category, m)
		}
		glog.Infof("category [%s]: %d states", category, hm.NumStates())
		models[category] = hm
	}
	if len(models) == 0 {
		return fmt.Errorf("train: no category produced a model")
	}
	return hmm.WriteCollectionFile(models, config.ModelFile)
}

func recognizeCmd() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "recognize",
		Short: "score test sequences against a trained model collection",
		RunE: func(cmd *cobra.Command, args []string) error {

			config, e := loadConfig()
			if e != nil {
				return e
			}
			fs := cmd.Flags()
			if fs.Changed("models") {
				config.ModelFile, _ = fs.GetString("models")
			}
			if fs.Changed("test") {
				config.TestFile, _ = fs.GetString("test")
			}
			if fs.Changed("results") {
				config.ResultsFile, _ = fs.GetString("results")
			}
			return recognize(config)
		},
	}
	fs := cmd.Flags()
	fs.String("models", "", "trained model collection file")
	fs.String("test", "", "test set file (JSON records, one per line)")
	fs.String("results", "", "output results file (default stdout)")
	return cmd
}

func recognize(config recognizer.Config) error {

	if config.ModelFile == "" {
		return fmt.Errorf("recognize: no model file")
	}
	if config.TestFile == "" {
		return fmt.Errorf("recognize: no test file")
	}
	collection, e := hmm.ReadCollectionFile(config.ModelFile)
	if e != nil {
		return e
	}
	categories := make([]string, 0, len(collection))
	for category := range collection {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	ms := recognizer.NewModelSet()
	for _, category := range categories {
		if e := ms.Add(category, collection[category]); e != nil {
			return e
		}
	}
	ts, e := dataset.ReadTestSetFile(config.TestFile)
	if e != nil {
		return e
	}
	probs, guesses, e := recognizer.Recognize(ms, ts)
	if e != nil {
		return e
	}

	var w io.Writer = os.Stdout
	if config.ResultsFile != "" {
		f, e := os.Create(config.ResultsFile)
		if e != nil {
			return e
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	labeled := false
	for i, item := range ts.Items() {
		if item.Label != "" {
			labeled = true
		}
		r := recognizer.Result{
			ID:     item.ID,
			Ref:    item.Label,
			Hyp:    guesses[i],
			Scores: probs[i],
		}
		if e := enc.Encode(&r); e != nil {
			return e
		}
	}
	if labeled {
		fmt.Fprintf(os.Stderr, "accuracy: %.4f\n", recognizer.Accuracy(guesses, ts))
	}
	return nil
}
