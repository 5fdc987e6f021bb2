package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/noriah/bowlgate"
	"github.com/noriah/bowlgate/fft"
	"github.com/noriah/bowlgate/graphic"
	"github.com/noriah/bowlgate/signature"
)

func runMonitor(ctx context.Context, cfg bowlgate.Config) error {
	mon := graphic.NewMonitor(cfg.File.Signature.Key)

	if err := mon.Init(); err != nil {
		return err
	}
	defer mon.Close()

	mon.Draw()

	// The screen is ours. Logs would tear it.
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg.Observer = mon

	return bowlgate.Run(mon.Start(ctx), cfg)
}

// capture keeps the first analyzed buffer and stops the run.
type capture struct {
	once   sync.Once
	cancel context.CancelFunc
	key    signature.Key
}

func (c *capture) Observe(buf []fft.Sample, _ bool) {
	c.once.Do(func() {
		c.key = signature.Calibrate(buf)
		c.cancel()
	})
}

func runCalibrate(ctx context.Context, cfg bowlgate.Config, w io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := &capture{cancel: cancel}
	cfg.Observer = c
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	fmt.Fprintln(w, "# waiting for a bark")

	if err := bowlgate.Run(ctx, cfg); err != nil {
		return err
	}

	if c.key == nil {
		return errors.New("no capture before the input ended")
	}

	return writeKey(w, c.key, cfg.File.Signature.Threshold)
}

func writeKey(w io.Writer, key signature.Key, threshold uint32) error {
	var doc struct {
		Signature struct {
			Key       []int  `yaml:"key,flow"`
			Threshold uint32 `yaml:"threshold"`
		} `yaml:"signature"`
	}

	doc.Signature.Key = make([]int, len(key))
	for i, v := range key {
		doc.Signature.Key[i] = int(v)
	}
	doc.Signature.Threshold = threshold

	enc := yaml.NewEncoder(w)
	defer enc.Close()

	return errors.Wrap(enc.Encode(&doc), "failed to write key")
}

// runCheck transforms a test input and prints the power of every output
// position next to a floating point reference.
func runCheck(w io.Writer, n, cycles int) error {
	if !fft.ValidSize(n) {
		return errors.Errorf("invalid transform size %d", n)
	}

	buf := make([]fft.Sample, n)
	if cycles == 0 {
		buf[0] = fft.FromInt8(math.MaxInt8)
	} else {
		for i := range buf {
			v := 100 * math.Sin(2*math.Pi*float64(cycles)*float64(i)/float64(n))
			buf[i] = fft.FromInt8(int8(math.Round(v)))
		}
	}

	ref := fft.NewReference(n)
	ref.Load(buf)
	ref.Execute()

	plan, err := fft.NewPlan(buf)
	if err != nil {
		return err
	}
	plan.Execute()

	fmt.Fprintf(w, "%5s %5s %12s %12s %4s\n", "pos", "bin", "power", "reference", "log")

	var worst float64
	for i, s := range buf {
		bin := fft.BinIndex(i, n)
		want := math.Pow(ref.Magnitude(bin), 2)

		fmt.Fprintf(w, "%5d %5d %12d %12.0f %4d\n", i, bin, s.Power(), want, signature.LogPower(s))

		if d := math.Abs(math.Sqrt(float64(s.Power())) - ref.Magnitude(bin)); d > worst {
			worst = d
		}
	}

	fmt.Fprintf(w, "worst magnitude error %.2f\n", worst)

	return nil
}
