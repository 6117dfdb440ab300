package autograph

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/esimov/autograph/utils"
	"golang.org/x/term"
)

// maxWorkers sets the maximum number of concurrently running workers.
const maxWorkers = 20

// recordingExt is the extension of the recordings picked up in directory mode.
const recordingExt = ".json"

// outputExtensions lists the supported destination formats.
var outputExtensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".svg", ".pdf"}

// Ops describes a batch export: a recording or a directory of recordings
// exported to a file or a directory.
type Ops struct {
	Src, Dst, PipeName string
	Workers            int
	// Format is the extension used for the files exported in directory mode.
	Format string
}

// Exporter turns stroke recordings into exported artifacts.
type Exporter struct {
	Style    Style
	Animated bool
	Spinner  *utils.Spinner
	Logger   *log.Logger
}

// result holds the outcome of a single export.
type result struct {
	path string
	err  error
}

// Execute runs the export described by op. Directories are walked
// recursively and their recordings are exported concurrently.
func (e *Exporter) Execute(op *Ops) error {
	var (
		fs  os.FileInfo
		err error
	)
	if op.Src == op.PipeName {
		fs, err = os.Stdin.Stat()
	} else {
		fs, err = os.Stat(op.Src)
	}
	if err != nil {
		return fmt.Errorf("failed to load the source recording: %w", err)
	}

	if e.Spinner != nil {
		e.Spinner.Start()
	}
	now := time.Now()

	switch mode := fs.Mode(); {
	case mode.IsDir():
		if !isValidExtension(op.Format, outputExtensions) {
			err = fmt.Errorf("%v file type not supported", op.Format)
			break
		}
		if _, err = os.Stat(op.Dst); err != nil {
			if err = os.MkdirAll(op.Dst, 0755); err != nil {
				err = fmt.Errorf("unable to create the destination directory: %w", err)
				break
			}
		}
		// Limit the concurrently running workers to maxWorkers.
		if op.Workers <= 0 || op.Workers > maxWorkers {
			op.Workers = runtime.NumCPU()
		}

		ch := make(chan result)
		done := make(chan interface{})
		defer close(done)

		paths, errc := walkDir(done, op.Src, []string{recordingExt})

		var wg sync.WaitGroup
		wg.Add(op.Workers)
		for i := 0; i < op.Workers; i++ {
			go func() {
				defer wg.Done()
				op.consumer(e, ch, done, paths)
			}()
		}

		// Close the channel after the values are consumed.
		go func() {
			defer close(ch)
			wg.Wait()
		}()

		var failed int
		for res := range ch {
			if res.err != nil {
				failed++
				err = res.err
			}
			e.printOpStatus(op, res.path, res.err)
		}
		if werr := <-errc; werr != nil {
			err = werr
		}
		if failed > 0 && err != nil {
			err = fmt.Errorf("%d export(s) failed, last error: %w", failed, err)
		}

	case mode.IsRegular() || mode&os.ModeNamedPipe != 0:
		ext := filepath.Ext(op.Dst)
		if !isValidExtension(ext, outputExtensions) && op.Dst != op.PipeName {
			err = fmt.Errorf("%v file type not supported", ext)
			break
		}
		if op.Dst == op.PipeName {
			ext = op.Format
		}
		err = op.process(e, op.Src, op.Dst, ext)
		e.printOpStatus(op, op.Dst, err)
	default:
		err = errors.New("the source should be a recording file, a directory or a pipe")
	}

	if e.Spinner != nil {
		if err != nil {
			e.Spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
				utils.DecorateText("⚡ AUTOGRAPH", utils.StatusMessage),
				utils.DecorateText("exporting failed...", utils.DefaultMessage),
				utils.DecorateText("✘", utils.ErrorMessage),
			)
		} else {
			e.Spinner.StopMsg = fmt.Sprintf("%s %s %s\n",
				utils.DecorateText("⚡ AUTOGRAPH", utils.StatusMessage),
				utils.DecorateText("⇢", utils.DefaultMessage),
				utils.DecorateText("the signature has been exported successfully ✔", utils.SuccessMessage),
			)
		}
		e.Spinner.Stop()
	}
	if err == nil {
		e.logf("Execution time: %s", utils.DecorateText(utils.FormatTime(time.Since(now)), utils.SuccessMessage))
	}
	return err
}

// Export reads a recording from r and writes the artifact matching ext to w.
func (e *Exporter) Export(r io.Reader, w io.Writer, ext string) error {
	rec, err := ReadRecording(r)
	if err != nil {
		return err
	}
	if len(rec.Strokes) == 0 {
		return ErrNothingToExport
	}

	switch ext = strings.ToLower(ext); ext {
	case ".svg":
		svg := ToStaticSVG(rec.Strokes, rec.Width, rec.Height)
		if e.Animated {
			svg = ToAnimatedSVG(rec.Strokes, rec.Width, rec.Height)
		}
		_, err = io.WriteString(w, svg)
		return err
	case ".pdf":
		return ToPDF(w, rec.Strokes, rec.Width, rec.Height)
	}

	img, err := RenderStrokes(rec.Strokes, rec.Width, rec.Height)
	if err != nil {
		return err
	}
	res, err := PostProcess(img, e.Style)
	if err != nil {
		return err
	}
	return EncodeImageExt(w, res, ext)
}

// consumer reads the path names from the paths channel and exports each recording.
func (op *Ops) consumer(
	e *Exporter,
	res chan<- result,
	done <-chan interface{},
	paths <-chan string,
) {
	for src := range paths {
		name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + op.Format
		dst := filepath.Join(op.Dst, name)
		err := op.process(e, src, dst, op.Format)

		select {
		case <-done:
			return
		case res <- result{
			path: dst,
			err:  err,
		}:
		}
	}
}

// process exports a single recording and removes the destination file on failure.
func (op *Ops) process(e *Exporter, in, out, ext string) error {
	src, dst, err := op.pathToFile(in, out)
	if err != nil {
		return err
	}

	// Capture CTRL-C signal and restores back the cursor visibility.
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-finished:
			return
		case <-signalChan:
		}
		if e.Spinner != nil {
			e.Spinner.RestoreCursor()
		}
		if f, ok := dst.(*os.File); ok && f != os.Stdout {
			os.Remove(f.Name())
		}
		os.Exit(1)
	}()

	defer func() {
		if f, ok := src.(*os.File); ok && f != os.Stdin {
			if err := f.Close(); err != nil {
				log.Printf("could not close the opened file: %v", err)
			}
		}
	}()

	err = e.Export(src, dst, ext)
	if f, ok := dst.(*os.File); ok && f != os.Stdout {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			// remove the partially written file in case of an error
			os.Remove(f.Name())
		}
	}
	return err
}

// pathToFile converts the source and destination paths to readable and writable files.
func (op *Ops) pathToFile(in, out string) (io.Reader, io.Writer, error) {
	var (
		src io.Reader
		dst io.Writer
		err error
	)
	// Check if the source is a pipe name or a regular file.
	if in == op.PipeName {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdin")
		}
		src = os.Stdin
	} else {
		src, err = os.Open(in)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to open the source file: %v", err)
		}
	}

	// Check if the destination is a pipe name or a regular file.
	if out == op.PipeName {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("`-` should be used with a pipe for stdout")
		}
		dst = os.Stdout
	} else {
		dst, err = os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			if f, ok := src.(*os.File); ok && f != os.Stdin {
				f.Close()
			}
			return nil, nil, fmt.Errorf("unable to create the destination file: %v", err)
		}
	}
	return src, dst, nil
}

// printOpStatus displays the outcome of a single export.
func (e *Exporter) printOpStatus(op *Ops, fname string, err error) {
	if err != nil {
		e.logf("%s %s",
			utils.DecorateText("Error exporting the signature:", utils.ErrorMessage),
			utils.DecorateText(fmt.Sprintf("%s\n\tReason: %v", filepath.Base(fname), err), utils.DefaultMessage),
		)
		return
	}
	if fname != op.PipeName {
		e.logf("The signature has been saved as: %s",
			utils.DecorateText(filepath.Base(fname), utils.SuccessMessage),
		)
	}
}

func (e *Exporter) logf(format string, args ...any) {
	if e.Logger != nil {
		e.Logger.Printf(format, args...)
	}
}

// walkDir starts a new goroutine to walk the specified directory tree
// in recursive manner and sends the path of each regular file to a new channel.
// It finishes in case the done channel is getting closed.
func walkDir(
	done <-chan interface{},
	src string,
	srcExts []string,
) (<-chan string, <-chan error) {
	pathChan := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		// Close the paths channel after Walk returns.
		defer close(pathChan)

		errChan <- filepath.Walk(src, func(path string, f os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !f.Mode().IsRegular() {
				return nil
			}
			if isValidExtension(filepath.Ext(f.Name()), srcExts) {
				select {
				case <-done:
					return errors.New("directory walk cancelled")
				case pathChan <- path:
				}
			}
			return nil
		})
	}()
	return pathChan, errChan
}

// isValidExtension checks for the supported extensions.
func isValidExtension(ext string, extensions []string) bool {
	return utils.Contains(extensions, strings.ToLower(ext))
}
