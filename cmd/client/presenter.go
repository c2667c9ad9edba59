package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"yoga-intelligence-be/internal/client"
	"yoga-intelligence-be/internal/protocol"
)

// presenter prints session results. Handlers run on the reader goroutine,
// so writes are serialized here.
type presenter struct {
	mu       sync.Mutex
	w        io.Writer
	lastPose string
}

func newPresenter(w io.Writer) *presenter {
	return &presenter{w: w}
}

func (p *presenter) printf(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func (p *presenter) banner(sessionID, server string) {
	p.printf("%s %s\n%s %s\n%s\n",
		color.CyanString("session"), sessionID,
		color.CyanString("server "), server,
		color.HiBlackString("type a message and press enter to ask the instructor"))
}

func (p *presenter) state(s client.State) {
	c := color.YellowString
	switch s {
	case client.StateConnected:
		c = color.GreenString
	case client.StateClosed:
		c = color.HiBlackString
	}
	p.printf("%s %s\n", color.HiBlackString("[conn]"), c(s.String()))
}

// pose prints only when the pose or its guidance changes.
func (p *presenter) pose(pc protocol.PoseCorrection) {
	line := fmt.Sprintf("%s %.0f%%", pc.DetectedPose, pc.QualityScore)
	if !pc.PoseDetected {
		line = pc.Message
	}
	key := line + strings.Join(pc.Corrections, "|")

	p.mu.Lock()
	defer p.mu.Unlock()
	if key == p.lastPose {
		return
	}
	p.lastPose = key

	score := color.GreenString
	switch {
	case !pc.PoseDetected:
		score = color.HiBlackString
	case pc.QualityScore < 60:
		score = color.RedString
	case pc.QualityScore < 85:
		score = color.YellowString
	}
	fmt.Fprintf(p.w, "%s %s\n", color.MagentaString("[pose]"), score(line))
	for _, c := range pc.Corrections {
		fmt.Fprintf(p.w, "       - %s\n", c)
	}
}

func (p *presenter) chat(text string) {
	p.printf("%s %s\n", color.BlueString("[guru]"), text)
}

func (p *presenter) consciousness(a protocol.ConsciousnessAnalysis) {
	p.printf("%s pci=%.2f depth=%s coherence=%.2f chakras=%.2f most_active=%s\n",
		color.CyanString("[mind]"),
		a.PCIScore, a.MeditationDepth.Level, a.OverallCoherence, a.Chakras.OverallBalance, a.Chakras.MostActive)
	for _, r := range a.Recommendations {
		p.printf("       * %s\n", r)
	}
}

func (p *presenter) warn(msg string) {
	p.printf("%s %s\n", color.YellowString("[warn]"), msg)
}

func (p *presenter) summary(s client.Stats) {
	p.printf("%s connects=%d frames_sent=%d frames_dropped=%d\n",
		color.HiBlackString("[done]"), s.Connects, s.FramesSent, s.FramesDropped)
}
