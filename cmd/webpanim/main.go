package main

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/webpanim/internal/config"
	"github.com/tauraamui/webpanim/pkg/animation"
	"github.com/tauraamui/webpanim/pkg/log"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/tiff"

	_ "image/jpeg"
)

const usage = "Usage: webpanim init | info <file.webp> | decode <file.webp> <outdir> | encode <out.webp> <frame.png|frame.tiff>..."

var fs = afero.NewOsFs()

func manage(settings config.Values, args []string) (string, error) {
	if len(args) == 0 {
		return usage, nil
	}

	switch args[0] {
	case "init":
		if err := config.Create(); err != nil {
			if errors.Is(err, config.ErrConfigAlreadyExists) {
				return "Config already exists, leaving it alone...", nil
			}
			return "", err
		}
		return "Default config written...", nil
	case "info":
		if len(args) != 2 {
			return usage, nil
		}
		return info(args[1])
	case "decode":
		if len(args) != 3 {
			return usage, nil
		}
		return decode(args[1], args[2])
	case "encode":
		if len(args) < 3 {
			return usage, nil
		}
		return encode(settings.Encode, args[1], args[2:])
	}

	return usage, nil
}

func info(path string) (string, error) {
	buf, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}

	dec, err := animation.NewDecoder(buf)
	if err != nil {
		return "", err
	}
	defer dec.Close()

	dims := dec.Dimensions()
	return fmt.Sprintf(
		"%s: %dx%d, %d frame(s), loop count %d, background 0x%08x",
		filepath.Base(path), dims.W, dims.H, dec.FrameCount(), dec.LoopCount(), dec.BackgroundColor(),
	), nil
}

func decode(path, outDir string) (string, error) {
	buf, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}

	dec, err := animation.NewDecoder(buf)
	if err != nil {
		return "", err
	}
	defer dec.Close()

	if err := fs.MkdirAll(outDir, os.ModeDir|os.ModePerm); err != nil {
		return "", err
	}

	written := 0
	iter := dec.Frames()
	for {
		frame, ok := iter.Next()
		if !ok {
			break
		}

		img, err := frame.ToImage()
		if err != nil {
			return "", err
		}

		framePath := filepath.Join(outDir, fmt.Sprintf("frame-%04d-%dms.png", written, frame.Timestamp()))
		if err := writePNG(framePath, img); err != nil {
			return "", err
		}

		log.Info("Wrote %s", framePath)
		written++
	}

	if written != dec.FrameCount() {
		log.Warn("Stream declared %d frame(s) but only %d decoded", dec.FrameCount(), written)
	}

	return fmt.Sprintf("Decoded %d frame(s) into %s", written, outDir), nil
}

func encode(settings config.EncodeSettings, outPath string, framePaths []string) (string, error) {
	frames := make([]*image.NRGBA, 0, len(framePaths))
	var dims animation.Dimensions

	for _, path := range framePaths {
		img, err := readFrameImage(path)
		if err != nil {
			return "", err
		}

		bounds := animation.Dimensions{W: img.Rect.Dx(), H: img.Rect.Dy()}
		if len(frames) == 0 {
			dims = bounds
		} else if bounds != dims {
			return "", xerror.Errorf(
				"frame %s is %dx%d, expected %dx%d (all frames must share the canvas size)",
				path, bounds.W, bounds.H, dims.W, dims.H,
			)
		}

		frames = append(frames, img)
	}

	enc, err := animation.NewEncoderWithOptions(dims.W, dims.H, animation.EncoderOptions{
		LoopCount:    settings.LoopCount,
		MinimizeSize: settings.MinimizeSize,
		Kmin:         settings.Kmin,
		Kmax:         settings.Kmax,
	})
	if err != nil {
		return "", err
	}

	if !settings.Lossless {
		lossyCfg := animation.NewLossyEncodingConfig(settings.Quality)
		lossyCfg.Method = settings.Method
		if err := enc.SetDefaultEncodingConfig(lossyCfg); err != nil {
			enc.Close()
			return "", err
		}
	}

	for i, frame := range frames {
		if err := enc.AddFrame(frame.Pix, i*settings.FrameDurationMS); err != nil {
			enc.Close()
			return "", err
		}
	}

	out, err := enc.Finalize(len(frames) * settings.FrameDurationMS)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := afero.WriteFile(fs, outPath, out.Bytes(), os.ModePerm); err != nil {
		return "", err
	}

	return fmt.Sprintf("Encoded %d frame(s) into %s (%d bytes)", len(frames), outPath, out.Len()), nil
}

func readFrameImage(path string) (*image.NRGBA, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var src image.Image
	switch filepath.Ext(path) {
	case ".tif", ".tiff":
		src, err = tiff.Decode(file)
	default:
		src, _, err = image.Decode(file)
	}
	if err != nil {
		return nil, xerror.Errorf("unable to decode frame image %s: %w", path, err)
	}

	nrgba := image.NewNRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(nrgba, nrgba.Rect, src, src.Bounds().Min, draw.Src)
	return nrgba, nil
}

func writePNG(path string, img image.Image) error {
	file, err := fs.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

func init() {
	logging.ColorLogLevelLabelOnly = true
	logging.CurrentLoggingLevel = logging.WarnLevel
}

func main() {
	settings, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}

	if level := os.Getenv("WEBPANIM_LOGGING_LEVEL"); len(level) > 0 {
		log.SetLevel(level)
	} else {
		log.SetLevel(settings.LogLevel)
	}

	status, err := manage(settings, os.Args[1:])
	if err != nil {
		log.Fatal(err.Error())
	}

	fmt.Println(status)
}
