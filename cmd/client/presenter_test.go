package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"yoga-intelligence-be/internal/protocol"
)

func TestPresenterPrintsPoseChangesOnly(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	p := newPresenter(&buf)

	pc := protocol.PoseCorrection{PoseDetected: true, DetectedPose: "tree_pose", QualityScore: 72, Corrections: []string{"Lift your chest"}}
	p.pose(pc)
	p.pose(pc)
	pc.Corrections = []string{"Great form! Hold this pose and breathe deeply."}
	pc.QualityScore = 95
	p.pose(pc)
	p.pose(protocol.NoPose(protocol.NoPoseMessage, pc.Timestamp))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "Lift your chest"))
	assert.Contains(t, out, "[pose] tree_pose 95%")
	assert.Contains(t, out, protocol.NoPoseMessage)
}
