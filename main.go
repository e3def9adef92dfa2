package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samuelfneumann/gotrain/callback"
	"github.com/samuelfneumann/gotrain/callback/checkpoint"
	"github.com/samuelfneumann/gotrain/callback/metrics"
	"github.com/samuelfneumann/gotrain/callback/progress"
	"github.com/samuelfneumann/gotrain/config"
	"github.com/samuelfneumann/gotrain/network"
	"github.com/samuelfneumann/gotrain/persist"
	"github.com/samuelfneumann/gotrain/trainer"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
)

var cli struct {
	Config  string `short:"c" help:"Run configuration file (YAML or JSON)" type:"path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Train struct {
		Data        string `help:"CSV file of samples, with the targets in the last columns" type:"existingfile"`
		MetricsAddr string `help:"Serve Prometheus metrics on this address while training" placeholder:"HOST:PORT"`
		NoProgress  bool   `help:"Do not print a progress bar"`
	} `cmd:"" help:"Train a network, checkpointing its weights"`

	Inspect struct {
		File string `arg:"" help:"Weights file to inspect" type:"existingfile"`
	} `cmd:"" help:"Print the parameters stored in a weights file"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("gotrain"),
		kong.Description("Train neural networks with checkpointing callbacks."))

	logLevel := slog.LevelInfo
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	var err error
	switch ctx.Command() {
	case "train":
		err = runTrain(logger)
	case "inspect <file>":
		err = runInspect(os.Stdout, cli.Inspect.File)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}

// runTrain trains a network as described by the run configuration
func runTrain(logger *slog.Logger) error {
	c := config.Default()
	if cli.Config != "" {
		var err error
		if c, err = config.Load(cli.Config); err != nil {
			return err
		}
	}

	n := c.Network
	net, err := network.NewMLP(n.Features, n.BatchSize, n.Outputs,
		G.NewGraph(), n.HiddenSizes, n.Biases, n.InitWFn.InitWFn(),
		n.Activations)
	if err != nil {
		return err
	}

	var data trainer.Dataset
	if cli.Train.Data != "" {
		data, err = readCSV(cli.Train.Data, n.Outputs)
	} else {
		data, err = synthetic(n.Features, n.Outputs, c.Data)
	}
	if err != nil {
		return err
	}
	train, validation, err := data.Split(c.Data.Validation, c.Data.Seed)
	if err != nil {
		return err
	}

	ckpt, err := checkpoint.New(c.Checkpoint, checkpoint.WithLogger(logger))
	if err != nil {
		return err
	}
	callbacks := callback.List{ckpt}
	if !cli.Train.NoProgress {
		callbacks = append(callbacks, progress.New(c.Trainer.Epochs, 40,
			progress.WithWriter(os.Stderr)))
	}

	if cli.Train.MetricsAddr != "" {
		reg := prom.NewRegistry()
		recorder, err := metrics.NewRecorder(reg)
		if err != nil {
			return err
		}
		callbacks = append(callbacks, recorder)

		server := &http.Server{
			Addr:              cli.Train.MetricsAddr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := server.ListenAndServe(); err != nil &&
				err != http.ErrServerClosed {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(),
				5*time.Second)
			defer cancel()
			server.Shutdown(ctx)
		}()
		logger.Info("Serving metrics", "addr", cli.Train.MetricsAddr)
	}

	t, err := trainer.New(net, c.Solver, c.Trainer,
		trainer.WithLogger(logger))
	if err != nil {
		return err
	}
	defer t.Close()

	logger.Info("Training", "epochs", c.Trainer.Epochs,
		"train_samples", train.Len(), "validation_samples", validation.Len())
	logs, err := t.Fit(train, validation, callbacks)
	if err != nil {
		return err
	}

	if best, ok := ckpt.Best(); ok {
		logger.Info("Best epoch", "epoch", best[callback.Epoch],
			"monitor", c.Checkpoint.Monitor,
			"value", best[c.Checkpoint.Monitor])
	} else if last := logs.Last(); last != nil {
		logger.Info("Finished training", "loss", last[trainer.Loss])
	}
	return nil
}

// synthetic returns samples of a random linear function with gaussian
// noise
func synthetic(features, outputs int, d config.Data) (trainer.Dataset,
	error) {
	rng := rand.New(rand.NewSource(d.Seed))

	coef := mat.NewDense(features, outputs, nil)
	for i := 0; i < features; i++ {
		for j := 0; j < outputs; j++ {
			coef.Set(i, j, rng.NormFloat64())
		}
	}

	x := mat.NewDense(d.Samples, features, nil)
	for i := 0; i < d.Samples; i++ {
		for j := 0; j < features; j++ {
			x.Set(i, j, 2*rng.Float64()-1)
		}
	}

	var y mat.Dense
	y.Mul(x, coef)
	y.Apply(func(_, _ int, v float64) float64 {
		return v + d.Noise*rng.NormFloat64()
	}, &y)

	return trainer.NewDataset(x, &y)
}

// readCSV reads a dataset from a CSV file of numbers in which the last
// outputs columns of each row are the targets
func readCSV(filename string, outputs int) (trainer.Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return trainer.Dataset{}, errors.Wrap(err, "readcsv")
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return trainer.Dataset{}, errors.Wrapf(err, "readcsv: %v", filename)
	}
	if len(records) == 0 || len(records[0]) <= outputs {
		return trainer.Dataset{}, fmt.Errorf("readcsv: %v must have more "+
			"than %d columns", filename, outputs)
	}

	cols := len(records[0])
	features := cols - outputs
	x := mat.NewDense(len(records), features, nil)
	y := mat.NewDense(len(records), outputs, nil)
	for i, record := range records {
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return trainer.Dataset{}, errors.Wrapf(err,
					"readcsv: %v row %d column %d", filename, i+1, j+1)
			}
			if j < features {
				x.Set(i, j, v)
			} else {
				y.Set(i, j-features, v)
			}
		}
	}
	return trainer.NewDataset(x, y)
}

// runInspect prints the name, shape, and L2 norm of each parameter in
// a weights file
func runInspect(w io.Writer, filename string) error {
	weights, err := persist.LoadWeights(filename)
	if err != nil {
		return err
	}

	for _, name := range weights.Names() {
		t := weights[name]
		fmt.Fprintf(w, "%-12v %-10v norm=%.6f\n", name, t.Shape(),
			floats.Norm(t.Float64s(), 2))
	}
	return nil
}
