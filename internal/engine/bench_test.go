package engine

import (
	"strings"
	"testing"

	"github.com/dshills/void/internal/input/command"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupLargeEngine(b *testing.B, lines int) *Engine {
	b.Helper()
	var sb strings.Builder
	line := strings.Repeat("x", 80) + "\n"
	for i := 0; i < lines; i++ {
		sb.WriteString(line)
	}
	return New(WithContent(sb.String()))
}

// ============================================================================
// Read Operation Benchmarks
// ============================================================================

func BenchmarkEngineText(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.Text()
	}
}

func BenchmarkEngineSnapshot(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	e.SetCaret(e.Len() / 2)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.Snapshot(5000, 50)
	}
}

// ============================================================================
// Edit Benchmarks
// ============================================================================

func BenchmarkTypeInMiddle(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	e.SetCaret(e.Len() / 2)
	insert := command.Command{Op: command.OpInsertChar, Rune: 'a'}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		e.Execute(insert)
	}
}

func BenchmarkTypeAndBackspace(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	e.SetCaret(e.Len() / 2)
	insert := command.Command{Op: command.OpInsertChar, Rune: 'a'}
	backspace := command.Command{Op: command.OpDeleteBackward}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		e.Execute(insert)
		e.Execute(backspace)
	}
}

func BenchmarkWordMotion(b *testing.B) {
	e := New(WithContent(strings.Repeat("lorem ipsum dolor sit amet\n", 1000)))
	right := command.Command{Op: command.OpWordRight}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if e.CaretOffset() >= e.Len() {
			e.SetCaret(0)
		}
		e.Execute(right)
	}
}
