package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/zalando/msgfilter/logging"
	"github.com/zalando/msgfilter/metrics"
)

const defaultPipelineName = "default"

type Config struct {
	ConfigFile string        `yaml:"-"`
	Flags      *flag.FlagSet `yaml:"-"`

	// logging:
	ApplicationLogLevel       log.Level `yaml:"-"`
	ApplicationLogLevelString string    `yaml:"application-log-level"`
	ApplicationLogPrefix      string    `yaml:"application-log-prefix"`
	ApplicationLogJSONEnabled bool      `yaml:"application-log-json-enabled"`

	// metrics:
	MetricsFlavour               *listFlag `yaml:"metrics-flavour"`
	MetricsPrefix                string    `yaml:"metrics-prefix"`
	MetricsUseExpDecaySample     bool      `yaml:"metrics-exp-decay-sample"`
	RuntimeMetrics               bool      `yaml:"runtime-metrics"`
	HistogramMetricBucketsString string    `yaml:"histogram-metric-buckets"`
	HistogramMetricBuckets       []float64 `yaml:"-"`

	// chains:
	DefaultPipeline string    `yaml:"default-pipeline"`
	Pipelines       Pipelines `yaml:"pipelines"`
}

func NewConfig() *Config {
	cfg := new(Config)
	cfg.MetricsFlavour = commaListFlag("codahale", "prometheus")

	flag := flag.NewFlagSet("", flag.ExitOnError)
	flag.StringVar(&cfg.ConfigFile, "config-file", "", "if provided the flags will be loaded/overwritten by the values on the file (yaml)")

	// logging:
	flag.StringVar(&cfg.ApplicationLogLevelString, "application-log-level", "INFO", "log level for application logs, possible values: PANIC, FATAL, ERROR, WARN, INFO, DEBUG")
	flag.StringVar(&cfg.ApplicationLogPrefix, "application-log-prefix", "[APP]", "prefix for each log entry")
	flag.BoolVar(&cfg.ApplicationLogJSONEnabled, "application-log-json-enabled", false, "when this flag is set, log in JSON format is used")

	// metrics:
	flag.Var(cfg.MetricsFlavour, "metrics-flavour", "Metrics flavour is used to change the exposed metrics format. Supported metric formats: 'codahale' and 'prometheus', you can select both of them")
	flag.StringVar(&cfg.MetricsPrefix, "metrics-prefix", "msgfilter.", "allows setting a custom path prefix for metrics export")
	flag.BoolVar(&cfg.MetricsUseExpDecaySample, "metrics-exp-decay-sample", false, "use exponentially decaying sample in metrics")
	flag.BoolVar(&cfg.RuntimeMetrics, "runtime-metrics", true, "enables reporting the Go runtime statistics")
	flag.StringVar(&cfg.HistogramMetricBucketsString, "histogram-metric-buckets", "", "use custom buckets for prometheus histograms, must be a comma-separated list of numbers")

	// chains:
	flag.StringVar(&cfg.DefaultPipeline, "default-pipeline", defaultPipelineName, "name of the pipeline used for the transactions that don't select one")

	cfg.Flags = flag
	return cfg
}

func (c *Config) Parse() error {
	return c.ParseArgs(os.Args[0], os.Args[1:])
}

func (c *Config) ParseArgs(progname string, args []string) error {
	c.Flags.Init(progname, flag.ContinueOnError)
	err := c.Flags.Parse(args)
	if err != nil {
		return err
	}

	// check if arguments were correctly parsed.
	if len(c.Flags.Args()) != 0 {
		return fmt.Errorf("invalid arguments: %s", c.Flags.Args())
	}

	if c.ConfigFile != "" {
		yamlFile, err := os.ReadFile(c.ConfigFile)
		if err != nil {
			return fmt.Errorf("invalid config file: %w", err)
		}

		err = yaml.Unmarshal(yamlFile, c)
		if err != nil {
			return fmt.Errorf("unmarshalling config file error: %w", err)
		}

		// flags take precedence over the file
		err = c.Flags.Parse(args)
		if err != nil {
			return err
		}
	}

	if err := validate(c); err != nil {
		return err
	}

	c.ApplicationLogLevel, _ = log.ParseLevel(c.ApplicationLogLevelString)
	c.HistogramMetricBuckets, _ = c.parseHistogramBuckets(c.HistogramMetricBucketsString, prometheus.DefBuckets)
	return nil
}

func validate(c *Config) error {
	_, err := log.ParseLevel(c.ApplicationLogLevelString)
	if err != nil {
		return err
	}

	_, err = c.parseHistogramBuckets(c.HistogramMetricBucketsString, nil)
	if err != nil {
		return err
	}

	if err := c.Pipelines.validate(); err != nil {
		return err
	}

	if len(c.Pipelines) > 0 {
		if _, err := c.Pipelines.Get(c.DefaultPipeline); err != nil {
			return fmt.Errorf("invalid default pipeline: %w", err)
		}
	}

	return nil
}

func (c *Config) parseHistogramBuckets(bucketString string, defaultBuckets []float64) ([]float64, error) {
	if bucketString == "" {
		return defaultBuckets, nil
	}

	var result []float64
	thresholds := strings.Split(bucketString, ",")
	for _, v := range thresholds {
		bucket, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("unable to parse histogram-metric-buckets: %w", err)
		}
		result = append(result, bucket)
	}
	sort.Float64s(result)
	return result, nil
}

func (c *Config) metricsKind() metrics.Kind {
	var codahale, prom bool
	for _, v := range c.MetricsFlavour.Values() {
		switch v {
		case "codahale":
			codahale = true
		case "prometheus":
			prom = true
		}
	}

	switch {
	case codahale && prom:
		return metrics.AllKind
	case prom:
		return metrics.PrometheusKind
	case codahale:
		return metrics.CodaHaleKind
	default:
		return metrics.UnknownKind
	}
}

// ToLoggingOptions returns the options of the application log. The output
// defaults to stderr when w is nil.
func (c *Config) ToLoggingOptions(w io.Writer) logging.Options {
	return logging.Options{
		ApplicationLogPrefix:      c.ApplicationLogPrefix,
		ApplicationLogOutput:      w,
		ApplicationLogLevel:       c.ApplicationLogLevelString,
		ApplicationLogJSONEnabled: c.ApplicationLogJSONEnabled,
	}
}

// ToMetricsOptions returns the options of the metrics backend. When no
// flavour was selected, the metrics are discarded.
func (c *Config) ToMetricsOptions() metrics.Options {
	return metrics.Options{
		Format:               c.metricsKind(),
		Prefix:               c.MetricsPrefix,
		UseExpDecaySample:    c.MetricsUseExpDecaySample,
		HistogramBuckets:     c.HistogramMetricBuckets,
		EnableRuntimeMetrics: c.RuntimeMetrics,
	}
}
