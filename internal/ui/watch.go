package ui

import (
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/peoxin/math-typst2latex/internal/pipeline"
)

// fileChangedMsg reports that the watched input file was written or replaced.
type fileChangedMsg struct{}

type fileWatchErrMsg struct {
	err error
}

// startWatching watches the directory of path, since editors often replace
// files instead of writing them in place. Events for other files are dropped
// in watchLoop.
func (m *Model) startWatching(path string) tea.Cmd {
	if path == "" || m.watcher != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.err = err
		return nil
	}
	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		m.err = err
		return nil
	}

	m.watcher = watcher
	m.watchedFile = path
	m.watchChan = make(chan tea.Msg, 10)
	go m.watchLoop(watcher, path)
	return m.waitForFileEvent()
}

func (m *Model) watchLoop(watcher *fsnotify.Watcher, path string) {
	defer close(m.watchChan)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			m.watchChan <- fileChangedMsg{}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.watchChan <- fileWatchErrMsg{err: err}
		}
	}
}

func (m *Model) waitForFileEvent() tea.Cmd {
	if m.watchChan == nil {
		return nil
	}
	ch := m.watchChan
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// reloadInputFile feeds the watched file into the input box when its contents
// differ from what is shown.
func (m *Model) reloadInputFile() {
	text, err := ReadInputFile(m.watchedFile)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	if text == m.state.Input {
		return
	}
	m.input.SetValue(text)
	m.dispatch(pipeline.InputEdited{Text: text})
}

// ReadInputFile returns the contents of a Typst file without its final
// newline.
func ReadInputFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSuffix(string(data), "\n"), "\r"), nil
}

func (m *Model) closeWatcher() {
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
}
