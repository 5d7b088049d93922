package operations

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/petergi/cup-validator-cli/internal/report"
	"github.com/petergi/cup-validator-cli/internal/validator"
)

func TestDefaultBatchConfig(t *testing.T) {
	config := DefaultBatchConfig()

	if config.NumWorkers != 1 {
		t.Errorf("Expected NumWorkers to be 1, got %d", config.NumWorkers)
	}

	if config.QueueSize != 100 {
		t.Errorf("Expected QueueSize to be 100, got %d", config.QueueSize)
	}

	if config.ProgressRate != 100*time.Millisecond {
		t.Errorf("Expected ProgressRate to be 100ms, got %v", config.ProgressRate)
	}

	if config.Timeout != 30*time.Second {
		t.Errorf("Expected Timeout to be 30s, got %v", config.Timeout)
	}
}

func TestNewBatchProcessor(t *testing.T) {
	config := DefaultBatchConfig()
	bp := NewBatchProcessor(context.Background(), config)

	if bp == nil {
		t.Fatal("Expected non-nil batch processor")
	}

	if bp.config.NumWorkers != config.NumWorkers {
		t.Errorf("Expected NumWorkers to be %d, got %d", config.NumWorkers, bp.config.NumWorkers)
	}

	if bp.taskQueue == nil || bp.resultQueue == nil || bp.progressCh == nil {
		t.Error("Expected queues to be initialized")
	}

	if bp.logger == nil {
		t.Error("Expected a discard logger when none is configured")
	}
}

func TestNewBatchProcessor_ClampsConfig(t *testing.T) {
	bp := NewBatchProcessor(context.Background(), BatchConfig{})

	if bp.config.NumWorkers != 1 {
		t.Errorf("Expected NumWorkers to be clamped to 1, got %d", bp.config.NumWorkers)
	}
	if bp.config.QueueSize != 1 {
		t.Errorf("Expected QueueSize to be clamped to 1, got %d", bp.config.QueueSize)
	}
	if bp.config.ProgressRate <= 0 {
		t.Error("Expected a positive ProgressRate")
	}
}

func TestBatchProcessor_Cancel(t *testing.T) {
	bp := NewBatchProcessor(context.Background(), DefaultBatchConfig())

	bp.Cancel()

	select {
	case <-bp.ctx.Done():
	case <-time.After(100 * time.Millisecond):
		t.Error("Expected context to be done after cancel")
	}
}

func TestFindFiles(t *testing.T) {
	tmpDir := t.TempDir()

	// root/
	//   book1.xml
	//   book2.XML
	//   other.txt
	//   subdir/
	//     book3.xml
	//     nested/
	//       book4.xml
	writeFile(t, tmpDir, "book1.xml", "x")
	writeFile(t, tmpDir, "book2.XML", "x")
	writeFile(t, tmpDir, "other.txt", "x")
	writeFile(t, tmpDir, filepath.Join("subdir", "book3.xml"), "x")
	writeFile(t, tmpDir, filepath.Join("subdir", "nested", "book4.xml"), "x")

	tests := []struct {
		name     string
		opts     FindFilesOptions
		expected int
	}{
		{"Recursive all", FindFilesOptions{Recursive: true, MaxDepth: -1}, 4},
		{"Non-recursive", FindFilesOptions{Recursive: false, MaxDepth: -1}, 2},
		{"Max depth 1", FindFilesOptions{Recursive: true, MaxDepth: 1}, 2},
		{"Max depth 2", FindFilesOptions{Recursive: true, MaxDepth: 2}, 3},
		{"Extensions filter", FindFilesOptions{Recursive: true, MaxDepth: -1, Extensions: []string{".txt"}}, 1},
		{"Ignore pattern", FindFilesOptions{Recursive: true, MaxDepth: -1, Ignore: []string{"subdir"}}, 2},
		{"Multiple extensions", FindFilesOptions{Recursive: true, MaxDepth: -1, Extensions: []string{"xml", "txt"}}, 5},
		{"Ignore file pattern", FindFilesOptions{Recursive: true, MaxDepth: -1, Ignore: []string{"book1.*"}}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := FindFiles(tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("FindFiles failed: %v", err)
			}
			if len(files) != tt.expected {
				t.Errorf("Expected %d files, got %d: %v", tt.expected, len(files), files)
			}
		})
	}
}

func TestFindFiles_MissingRoot(t *testing.T) {
	if _, err := FindFiles(filepath.Join(t.TempDir(), "missing"), FindFilesOptions{MaxDepth: -1}); err == nil {
		t.Error("Expected error for missing root")
	}
}

func TestBatchProcessor_Execute_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 20; i++ {
		files = append(files, writeFile(t, dir, fmt.Sprintf("f%02d.xml", i), fmt.Sprintf(validXML, fmt.Sprint(i))))
	}

	config := DefaultBatchConfig()
	config.NumWorkers = 4
	bp := NewBatchProcessor(context.Background(), config)
	defer bp.Cancel()

	inputs := bp.Execute(files)
	if len(inputs) != len(files) {
		t.Fatalf("Expected %d inputs, got %d", len(files), len(inputs))
	}
	for i, in := range inputs {
		if in.Record.ISBN != fmt.Sprint(i) {
			t.Errorf("Input %d out of order: ISBN %q", i, in.Record.ISBN)
		}
	}
}

func TestBatchProcessor_Run(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeFile(t, dir, "a.xml", fmt.Sprintf(validXML, "1")),
		writeFile(t, dir, "b.xml", "<record><isbn>2</isbn>"),
		writeFile(t, dir, "c.xml", "<book/>"),
		filepath.Join(dir, "missing.xml"),
	}

	bp := NewBatchProcessor(context.Background(), DefaultBatchConfig())
	result, err := bp.Run(files, validator.New(nil))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Summary != (report.Summary{Total: 4, Passed: 1, Failed: 3}) {
		t.Errorf("Unexpected summary %+v", result.Summary)
	}

	want := []string{"", CheckXMLFormat, CheckXMLStructure, CheckFileError}
	for i, name := range want {
		if name == "" {
			continue
		}
		if got := result.Outcomes[i].Checks[0].Name; got != name {
			t.Errorf("Outcome %d: expected %q, got %q", i, name, got)
		}
	}

	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Errorf("Expected a UUID run id, got %q", result.RunID)
	}
}

func TestBatchProcessor_Execute_Canceled(t *testing.T) {
	config := DefaultBatchConfig()
	config.QueueSize = 2

	bp := NewBatchProcessor(context.Background(), config)
	bp.Cancel()

	results := bp.Execute([]string{"file1.xml", "file2.xml"})

	if len(results) != 0 {
		t.Fatalf("Expected no results after cancellation, got %d", len(results))
	}
}

func TestBatchProcessor_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp := NewBatchProcessor(ctx, DefaultBatchConfig())
	result, err := bp.Run([]string{"file1.xml"}, validator.New(nil))
	if err == nil {
		t.Fatal("Expected cancellation error")
	}
	if result.Summary.Total != 0 {
		t.Errorf("Expected empty result, got %+v", result.Summary)
	}
}

func TestBatchProcessor_ReportProgress(t *testing.T) {
	config := DefaultBatchConfig()
	config.ProgressRate = 5 * time.Millisecond

	bp := NewBatchProcessor(context.Background(), config)
	bp.total = 3
	bp.completed.Store(1)
	bp.currentFile.Store("file1.xml")

	go bp.reportProgress()
	defer bp.Cancel()

	select {
	case update := <-bp.ProgressChannel():
		if update.Completed != 1 {
			t.Errorf("Expected completed to be 1, got %d", update.Completed)
		}
		if update.Total != 3 {
			t.Errorf("Expected total to be 3, got %d", update.Total)
		}
		if update.Current != "file1.xml" {
			t.Errorf("Expected current to be file1.xml, got %s", update.Current)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Expected progress update")
	}
}

func TestBatchProcessor_ProgressChannelClosesWhenDone(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeFile(t, dir, "a.xml", fmt.Sprintf(validXML, "1"))}

	bp := NewBatchProcessor(context.Background(), DefaultBatchConfig())
	defer bp.Cancel()
	bp.Execute(files)

	var last ProgressUpdate
	timeout := time.After(time.Second)
	for {
		select {
		case update, ok := <-bp.ProgressChannel():
			if !ok {
				if last.Completed != 1 || last.Total != 1 {
					t.Errorf("Expected final update 1/1, got %+v", last)
				}
				return
			}
			last = update
		case <-timeout:
			t.Fatal("Expected progress channel to close")
		}
	}
}

func TestAggregateResults(t *testing.T) {
	pass := report.Outcome{ISBN: "1", Checks: []validator.CheckResult{{Name: "A", Passed: true}}}
	fail := report.Outcome{ISBN: "2", Checks: []validator.CheckResult{{Name: "A", Passed: false}}}

	br := AggregateResults([]report.Outcome{pass, fail, pass}, 50*time.Millisecond)

	if len(br.Passed) != 2 {
		t.Errorf("Expected 2 passed, got %d", len(br.Passed))
	}
	if len(br.Failed) != 1 {
		t.Errorf("Expected 1 failed, got %d", len(br.Failed))
	}
	if br.Summary.Total != 3 || br.Summary.Passed+br.Summary.Failed != br.Summary.Total {
		t.Errorf("Inconsistent summary %+v", br.Summary)
	}
	if br.Duration != 50*time.Millisecond {
		t.Errorf("Expected duration to be carried, got %v", br.Duration)
	}
}

func TestAggregateResults_Empty(t *testing.T) {
	br := AggregateResults(nil, 0)

	if br.Outcomes == nil || br.Passed == nil || br.Failed == nil {
		t.Error("Expected non-nil slices")
	}
	if br.Summary.Total != 0 {
		t.Errorf("Expected zero total, got %d", br.Summary.Total)
	}
}

func TestAggregateResults_UniqueRunIDs(t *testing.T) {
	a := AggregateResults(nil, 0)
	b := AggregateResults(nil, 0)
	if a.RunID == b.RunID {
		t.Error("Expected distinct run ids")
	}
}
