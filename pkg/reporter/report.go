package reporter

import (
	"bufio"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pterm/pterm"

	"github.com/kondukto-io/dspolicy/internal/core/domain"
	"github.com/kondukto-io/dspolicy/pkg/logger"
)

const defaultFile = "/tmp/dspolicy.out"

// Reporter writes routing decisions as JSON lines and prints them as a table
type Reporter struct {
	mu             sync.Mutex
	events         []domain.TrackEvent
	eventsHashMap  map[string]bool
	Err            error
	outputFileName string
	file           *os.File
}

// NewReporter returns a new reporter
func NewReporter(outputFileName string) *Reporter {
	if outputFileName == "" {
		outputFileName = defaultFile
		logger.Log.Debugf("using the default output file: %s", outputFileName)
	}

	var report = &Reporter{
		eventsHashMap:  make(map[string]bool, 0),
		outputFileName: outputFileName,
	}

	file, err := report.openReportFile()
	if err != nil {
		report.Err = fmt.Errorf("failed to open report file: %w", err)
		return report
	}

	report.file = file

	return report
}

// LoadAndPrint prints the decisions stored in a report file
func LoadAndPrint(fileName string) error {
	if fileName == "" {
		fileName = defaultFile
	}

	f, err := os.OpenFile(fileName, os.O_RDONLY, os.ModePerm)
	if err != nil {
		return err
	}
	defer f.Close()

	r := Reporter{
		file:           f,
		outputFileName: fileName,
	}

	rd := bufio.NewReader(f)
	for {
		line, err := rd.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}

		event := domain.TrackEvent{}
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			return err
		}
		r.events = append(r.events, event)
	}

	r.PrintReportTable()
	return nil
}

// Track implements track.Sink
func (r *Reporter) Track(event domain.TrackEvent) {
	if err := r.WriteEvent(event); err != nil {
		logger.Log.Errorf("failed to report event: %v", err)
	}
}

// WriteEvent adds an event to the report file. Identical decisions for
// the same client are written once.
func (r *Reporter) WriteEvent(event domain.TrackEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return fmt.Errorf("report file is not open: %s", r.outputFileName)
	}

	var key = strings.Join([]string{
		event.DeliveryService,
		event.Operation,
		event.ClientIP,
		string(event.Result),
		string(event.ResultDetails),
	}, "|")
	var hash = hash(key)

	if _, ok := r.eventsHashMap[hash]; ok {
		logger.Log.Debugf("event [%s] already exists", key)
		return nil
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	if _, err := r.file.WriteString(string(eventData) + "\n"); err != nil {
		return fmt.Errorf("failed to write an event to file: %s %w", r.file.Name(), err)
	}

	r.events = append(r.events, event)
	r.eventsHashMap[hash] = true

	return nil
}

// Events returns the reported events
func (r *Reporter) Events() []domain.TrackEvent {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]domain.TrackEvent(nil), r.events...)
}

// Close closes the report file
func (r *Reporter) Close() error {
	if r.file == nil {
		return nil
	}

	if err := r.file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	return nil
}

func (r *Reporter) openReportFile() (*os.File, error) {
	file, err := os.OpenFile(r.outputFileName, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat output file: %w", err)
		}

		if err := os.MkdirAll(filepath.Dir(r.outputFileName), os.ModePerm); err != nil && !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}

		file, err = os.Create(r.outputFileName)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
	}

	return file, nil
}

// PrintReportTable renders the reported events
func (r *Reporter) PrintReportTable() {
	fmt.Print("\n\n")
	data := pterm.TableData{
		{"Delivery Service", "Operation", "Client", "Result", "Details", "Answer"},
	}

	for _, v := range r.events {
		data = append(data, []string{
			v.DeliveryService,
			v.Operation,
			v.ClientIP,
			string(v.Result),
			string(v.ResultDetails),
			strings.Join(v.Answer, " "),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithRowSeparator("-").WithHeaderRowSeparator("-").WithData(data).Render(); err != nil {
		logger.Log.Warnf("failed to render report table: %v", err)
	}
}

func hash(text string) string {
	hasher := md5.New()
	hasher.Write([]byte(text))

	return hex.EncodeToString(hasher.Sum(nil))
}
