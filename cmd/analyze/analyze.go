package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"
	"github.com/fitvision/formcheck/pkg/form"
	"github.com/fitvision/formcheck/pkg/pose"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	parser := argparse.NewParser("analyze", "Analyze exercise form in a video")
	input := parser.String("i", "input", &argparse.Options{Help: "Input video file", Required: true})
	exercise := parser.String("e", "exercise", &argparse.Options{Help: "Exercise type (eg pushup, squat)", Required: true})
	sidecar := parser.String("s", "sidecar", &argparse.Options{Help: "URL of the pose estimation sidecar", Default: "http://127.0.0.1:9505"})
	maxFrames := parser.Int("", "maxframes", &argparse.Options{Help: "Maximum number of frames to analyze", Default: pose.DefaultMaxFrames})
	asJSON := parser.Flag("j", "json", &argparse.Options{Help: "Emit the raw analysis result as JSON", Default: false})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, _ := logs.NewLog()

	estimator, err := pose.NewHTTPEstimator(*sidecar)
	check(err)
	defer estimator.Close()

	analyzer := form.NewAnalyzer()
	result, err := analyzer.AnalyzeVideoFile(logger, *input, *exercise, estimator, form.VideoAnalysisOptions{
		MaxFrames: *maxFrames,
	})
	check(err)

	if *asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		check(encoder.Encode(result))
	} else {
		fmt.Println(form.FormatFeedback(result))
	}
}
