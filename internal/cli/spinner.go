package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/archdeck/pkg/diagram"
	"github.com/matzehuels/archdeck/pkg/diagram/scene"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// spinnerTints cycles the frame color through the node palette.
var spinnerTints = []diagram.NodeType{
	diagram.NodeService, diagram.NodeDatabase, diagram.NodeQueue, diagram.NodeGateway,
}

// spinner animates a single status line on w until finish is called or
// ctx is done.
type spinner struct {
	w       io.Writer
	message string
	start   time.Time

	stop chan struct{}
	done chan struct{}
	once sync.Once
	took time.Duration
}

func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	s := &spinner{
		w:       w,
		message: message,
		start:   time.Now(),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	drawn := false
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
		case <-s.stop:
		case <-tick.C:
			tint := scene.NodeStyle(spinnerTints[(i/len(spinnerFrames))%len(spinnerTints)], scene.ThemeDark).Stroke
			frame := lipgloss.NewStyle().Foreground(lipgloss.Color(tint)).Render(string(spinnerFrames[i%len(spinnerFrames)]))
			fmt.Fprintf(s.w, "\r%s %s", frame, StyleDim.Render(s.message))
			drawn = true
			continue
		}
		if drawn {
			fmt.Fprint(s.w, "\r\033[K")
		}
		return
	}
}

// finish stops the animation, clears the line and returns how long the
// spinner ran. Later calls return the same duration.
func (s *spinner) finish() time.Duration {
	s.once.Do(func() {
		close(s.stop)
		<-s.done
		s.took = time.Since(s.start).Round(time.Millisecond)
	})
	return s.took
}
