package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"

	"github.com/optimg/optimg/internal/codec"
	"github.com/optimg/optimg/internal/model"
	"github.com/optimg/optimg/internal/naming"
	"github.com/optimg/optimg/internal/pipeline"
	"github.com/optimg/optimg/internal/processor"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func writePNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 3)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func emptySpec(t *testing.T) *pipeline.Spec {
	t.Helper()
	spec, err := pipeline.Compile(nil, pipeline.Modifiers{})
	require.NoError(t, err)
	return spec
}

func TestRun_OneFailureDoesNotAbortSiblings(t *testing.T) {
	dir := t.TempDir()
	spec := emptySpec(t)
	enc := codec.NewPng()

	jobs := make([]Job, 0, 10)
	for i := 0; i < 10; i++ {
		input := filepath.Join(dir, fmt.Sprintf("in%d.png", i))
		if i == 3 {
			require.NoError(t, os.WriteFile(input, []byte("corrupt"), 0o644))
		} else {
			writePNG(t, input)
		}
		output := filepath.Join(dir, fmt.Sprintf("out%d.png", i))
		jobs = append(jobs, NewJob(input, output, false, spec, enc))
	}

	sched := New(4, processor.New(spec), nil)
	report := sched.Run(context.Background(), jobs)

	require.Equal(t, 10, report.Total)
	require.Equal(t, 9, report.Succeeded)
	require.Equal(t, 1, report.Failed)
	require.False(t, report.AllSucceeded())

	failures := report.Failures()
	require.Len(t, failures, 1)
	require.Equal(t, filepath.Join(dir, "in3.png"), failures[0].InputPath)
	require.Equal(t, model.KindDecode, failures[0].Kind)

	for i := 0; i < 10; i++ {
		_, err := os.Stat(filepath.Join(dir, fmt.Sprintf("out%d.png", i)))
		if i == 3 {
			require.Error(t, err)
		} else {
			require.NoError(t, err)
		}
	}
}

func TestRun_BackupSurvivesFailure(t *testing.T) {
	dir := t.TempDir()
	spec := emptySpec(t)

	input := filepath.Join(dir, "in.png")
	require.NoError(t, os.WriteFile(input, []byte("corrupt"), 0o644))

	job := NewJob(input, filepath.Join(dir, "out.png"), true, spec, codec.NewPng())
	report := New(1, processor.New(spec), nil).Run(context.Background(), []Job{job})

	require.Equal(t, 1, report.Failed)

	// The rename happened before decode, so the original bytes survive
	// at the backup path even though the job failed.
	data, err := os.ReadFile(input + naming.BackupSuffix)
	require.NoError(t, err)
	require.Equal(t, []byte("corrupt"), data)
}

func TestRun_BackupRenamesInput(t *testing.T) {
	dir := t.TempDir()
	spec := emptySpec(t)

	input := filepath.Join(dir, "in.png")
	writePNG(t, input)

	job := NewJob(input, filepath.Join(dir, "out.png"), true, spec, codec.NewPng())
	report := New(1, processor.New(spec), nil).Run(context.Background(), []Job{job})

	require.True(t, report.AllSucceeded())

	_, err := os.Stat(input)
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(input + naming.BackupSuffix)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "out.png"))
	require.NoError(t, err)
}

func TestRun_MissingInputReportedAsIO(t *testing.T) {
	dir := t.TempDir()
	spec := emptySpec(t)

	job := NewJob(filepath.Join(dir, "nope.png"), filepath.Join(dir, "out.png"), false, spec, codec.NewPng())
	report := New(1, processor.New(spec), nil).Run(context.Background(), []Job{job})

	require.Equal(t, 1, report.Failed)
	require.Equal(t, model.KindIO, report.Failures()[0].Kind)
}

func TestRun_CancelledContextStopsDispatch(t *testing.T) {
	dir := t.TempDir()
	spec := emptySpec(t)
	enc := codec.NewPng()

	jobs := make([]Job, 0, 20)
	for i := 0; i < 20; i++ {
		input := filepath.Join(dir, fmt.Sprintf("in%d.png", i))
		writePNG(t, input)
		jobs = append(jobs, NewJob(input, filepath.Join(dir, fmt.Sprintf("out%d.png", i)), false, spec, enc))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := New(2, processor.New(spec), nil).Run(ctx, jobs)

	// Nothing new is dispatched after cancellation; whatever was already
	// picked up still completes and is counted.
	require.Equal(t, 20, report.Total)
	require.LessOrEqual(t, len(report.Results), 20)
	require.Equal(t, report.Succeeded+report.Failed, len(report.Results))
}

type recordingMirror struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func (m *recordingMirror) Save(_ context.Context, objectName string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[objectName] = append([]byte(nil), data...)
	return nil
}

func TestRun_MirrorsSuccessfulOutputs(t *testing.T) {
	dir := t.TempDir()
	spec := emptySpec(t)

	input := filepath.Join(dir, "in.png")
	writePNG(t, input)
	output := filepath.Join(dir, "out.png")

	mirror := &recordingMirror{}
	job := NewJob(input, output, false, spec, codec.NewPng())
	report := New(1, processor.New(spec), mirror).Run(context.Background(), []Job{job})

	require.True(t, report.AllSucceeded())

	local, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, local, mirror.saved[output])
}

func TestRun_MirrorFailureDoesNotFailJob(t *testing.T) {
	dir := t.TempDir()
	spec := emptySpec(t)

	input := filepath.Join(dir, "in.png")
	writePNG(t, input)

	mirror := &recordingMirror{err: fmt.Errorf("bucket unavailable")}
	job := NewJob(input, filepath.Join(dir, "out.png"), false, spec, codec.NewPng())
	report := New(1, processor.New(spec), mirror).Run(context.Background(), []Job{job})

	require.True(t, report.AllSucceeded())
}

func TestDefaultWorkers(t *testing.T) {
	n := DefaultWorkers()
	require.GreaterOrEqual(t, n, 1)
	require.LessOrEqual(t, n, maxWorkers)
}
