package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/paulmach/orb"
	"github.com/shiena/ansicolor"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/atlasdatatech/geojsmap"
)

// flag
var (
	hf bool
	cf string
)

func init() {
	flag.BoolVar(&hf, "h", false, "this help")
	flag.StringVar(&cf, "c", "conf.toml", "set config `file`")
	flag.Usage = usage
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		ShowFullLevel:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	// stdout carries display bundles, logs go to stderr
	log.SetOutput(ansicolor.NewAnsiColorWriter(os.Stderr))
	log.SetLevel(log.InfoLevel)
}

func usage() {
	fmt.Fprintf(os.Stderr, `geojsmap version: geojsmap/v0.1.0
Usage: geojsmap [-h] [-c filename] map.toml [map.json ...]
`)
	flag.PrintDefaults()
}

// initConf 初始化配置
func initConf(cfgFile string) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		log.Warnf("config file(%s) not exist", cfgFile)
	}
	viper.SetConfigType("toml")
	viper.SetConfigFile(cfgFile)
	viper.AutomaticEnv() // read in environment variables that match
	err := viper.ReadInConfig()
	if err != nil {
		log.Warnf("read config file(%s) error, details: %s", viper.ConfigFileUsed(), err)
	}
	viper.SetDefault("app.version", "v 0.1.0")
	viper.SetDefault("app.title", "GeoJS Map")
	viper.SetDefault("output.format", "stdout")
	viper.SetDefault("output.directory", "output")
	viper.SetDefault("output.indent", "")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.directory", "")
	viper.SetDefault("log.file", geojsmap.DefaultLogFile)
}

func newDisplayer() (geojsmap.Displayer, func(), error) {
	nop := func() {}
	switch format := viper.GetString("output.format"); format {
	case "stdout":
		d := geojsmap.NewJSONDisplayer(os.Stdout)
		d.Indent = viper.GetString("output.indent")
		return d, nop, nil
	case "files":
		return &geojsmap.FileDisplayer{Dir: viper.GetString("output.directory")}, nop, nil
	case "sqlite":
		a, err := geojsmap.OpenArchive(viper.GetString("output.directory"), viper.GetString("app.title"), viper.GetString("output.file"))
		if err != nil {
			return nil, nop, err
		}
		log.Infof("archiving displays to %s", a.File)
		return a, func() {
			if err := a.Optimize(); err != nil {
				log.Warnf("optimize archive error ~ %s", err)
			}
			a.Close()
		}, nil
	default:
		return nil, nop, fmt.Errorf("unknown output format %q", format)
	}
}

func logCoverage(m *geojsmap.Map) {
	if !log.IsLevelEnabled(log.DebugLevel) || m.MaxBounds == nil {
		return
	}
	b := m.MaxBounds
	bound := orb.Bound{Min: orb.Point{b.Left, b.Bottom}, Max: orb.Point{b.Right, b.Top}}
	for i, l := range m.Layers() {
		osm, ok := l.(*geojsmap.OSMLayer)
		if !ok {
			continue
		}
		minz, maxz := osm.ZoomRange()
		for z, n := range geojsmap.CoverCount(bound, minz, maxz) {
			log.Debugf("layer %d zoom %d: %d tiles from %s", i, z, n, osm.URL())
		}
	}
}

func display(path string, d geojsmap.Displayer) error {
	cfg, err := geojsmap.LoadConfig(path)
	if err != nil {
		return err
	}
	m, err := cfg.Build(nil)
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	if dir := viper.GetString("log.directory"); dir != "" {
		diag, err := m.CreateLogger(dir, viper.GetString("log.file"))
		if err != nil {
			return err
		}
		defer m.CloseLogger()
		diag.SetLevel(log.GetLevel())
	}
	logCoverage(m)
	return m.Display(d)
}

func main() {
	flag.Parse()
	if hf {
		flag.Usage()
		return
	}

	if cf == "" {
		cf = "conf.toml"
	}
	initConf(cf)
	if lvl, err := log.ParseLevel(viper.GetString("log.level")); err == nil {
		log.SetLevel(lvl)
	}

	files := flag.Args()
	if len(files) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	start := time.Now()
	d, closeFn, err := newDisplayer()
	if err != nil {
		log.Fatal(err)
	}
	defer closeFn()

	bar := pb.New(len(files)).Prefix("Maps : ")
	bar.Output = os.Stderr
	bar.NotPrint = len(files) < 2
	bar.Start()
	failed := 0
	for _, f := range files {
		if err := display(f, d); err != nil {
			log.Errorf("display %s error ~ %s", f, err)
			failed++
		}
		bar.Increment()
	}
	bar.FinishPrint(fmt.Sprintf("%d maps displayed ~", len(files)-failed))
	log.Infof("%.3fs finished...", time.Since(start).Seconds())
	if failed > 0 {
		closeFn()
		os.Exit(1)
	}
}
