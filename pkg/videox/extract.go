// Package videox reads video files with ffmpeg/ffprobe. We shell out instead
// of linking libav, so the only runtime requirement is ffmpeg on the PATH.
package videox

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/fitvision/formcheck/pkg/rando"
)

// ErrUnreadableVideo means ffmpeg/ffprobe could not make sense of the file.
var ErrUnreadableVideo = errors.New("unreadable video file")

// Extract the duration of a video file
func ExtractVideoDuration(srcFilename string) (time.Duration, error) {
	args := []string{
		"-v",
		"error",
		"-show_entries",
		"format=duration",
		"-of",
		"default=noprint_wrappers=1:nokey=1",
		srcFilename,
	}
	out, err := RunAppCombinedOutput("ffprobe", args)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadableVideo, err)
	}
	// ffprobe can emit extra lines before the value (eg gpg-agent noise),
	// so scan for the first line that parses.
	outStr := string(out)
	if d, ok := parseDurationOutput(outStr); ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: unable to parse ffprobe output: %v", ErrUnreadableVideo, outStr)
}

func parseDurationOutput(out string) (time.Duration, bool) {
	for _, line := range strings.Split(out, "\n") {
		if seconds, err := strconv.ParseFloat(strings.TrimSpace(line), 64); err == nil {
			return time.Duration(seconds * float64(time.Second)), true
		}
	}
	return 0, false
}

// Extract the number of frames in a video file
func ExtractFrameCount(srcFilename string) (int, error) {
	args := []string{
		"-v",
		"error",
		"-select_streams",
		"v:0",
		"-count_packets",
		"-show_entries",
		"stream=nb_read_packets",
		"-of",
		"default=noprint_wrappers=1:nokey=1",
		srcFilename,
	}
	out, err := RunAppCombinedOutput("ffprobe", args)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnreadableVideo, err)
	}
	outStr := string(out)
	if n, ok := parseFrameCountOutput(outStr); ok {
		return n, nil
	}
	return 0, fmt.Errorf("%w: unable to parse ffprobe output: %v", ErrUnreadableVideo, outStr)
}

func parseFrameCountOutput(out string) (int, bool) {
	for _, line := range strings.Split(out, "\n") {
		if n, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Extract a single frame from a video file and return the JPEG bytes
// If outputWidth is zero, then we use the same width as the input video
func ExtractFrame(srcFilename string, atSecond float64, outputWidth int) ([]byte, error) {
	tmpFilename := rando.TempFilename(".jpg")
	defer os.Remove(tmpFilename)
	args := []string{
		"-ss",
		fmt.Sprintf("%.3f", atSecond),
		"-i",
		srcFilename,
	}
	if outputWidth > 0 {
		args = append(args,
			"-vf",
			fmt.Sprintf("scale=%v:-1", outputWidth),
		)
	}
	args = append(args,
		"-frames:v",
		"1",
		"-q:v",
		"8",
		tmpFilename,
	)
	_, err := RunAppCombinedOutput("ffmpeg", args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableVideo, err)
	}
	return os.ReadFile(tmpFilename)
}

// ExtractFrames dumps up to maxFrames frames of the video as JPEG files into
// outDir, and returns the filenames in frame order.
func ExtractFrames(srcFilename, outDir string, maxFrames int) ([]string, error) {
	pattern := outDir + "/frame-%05d.jpg"
	args := []string{
		"-i",
		srcFilename,
		"-frames:v",
		strconv.Itoa(maxFrames),
		"-q:v",
		"4",
		pattern,
	}
	_, err := RunAppCombinedOutput("ffmpeg", args)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableVideo, err)
	}
	files := []string{}
	for i := 1; i <= maxFrames; i++ {
		fn := fmt.Sprintf("%v/frame-%05d.jpg", outDir, i)
		if _, err := os.Stat(fn); err != nil {
			break
		}
		files = append(files, fn)
	}
	return files, nil
}

// app_name is an executable, such as "ffmpeg" or "ffprobe"
// args must not include the executable name as the first parameter
// Returns the string output from exec.Cmd's "CombinedOutput" method.
func RunAppCombinedOutput(app_name string, args []string) ([]byte, error) {
	app_path, err := exec.LookPath(app_name)
	if err != nil {
		return nil, fmt.Errorf("Unable to find '%v' in your path (%w)", app_name, err)
	}
	args_with_app := append([]string{app_name}, args...)
	cmd := &exec.Cmd{
		Path: app_path,
		Args: args_with_app,
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		outStr := ""
		if out != nil {
			outStr = string(out)
		}
		return nil, fmt.Errorf("%v execution failed: %w (%v)", app_name, err, outStr)
	}
	return out, nil
}
