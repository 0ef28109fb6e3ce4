// Package challenge implements the dismissal gates a ringing alarm can put
// in front of the user: math puzzles and the shake gesture.
package challenge

import (
	"fmt"
	"math/rand"

	"github.com/tidewater/clarion/pkg/models"
)

// PuzzleKind distinguishes the puzzle families.
type PuzzleKind string

const (
	KindArithmetic PuzzleKind = "arithmetic"
	KindSequence   PuzzleKind = "sequence"
	KindLogic      PuzzleKind = "logic"
)

// Puzzle is one generated question with its integer answer.
type Puzzle struct {
	Question string
	Answer   int
	Kind     PuzzleKind
}

// Check reports whether the submitted answer is correct. A wrong answer
// means the caller generates a fresh puzzle; there is no retry on the same
// one and no lockout.
func (p *Puzzle) Check(answer int) bool {
	return answer == p.Answer
}

// MathGenerator produces dismissal puzzles. The zero source uses global
// randomness; tests pass a seeded one.
type MathGenerator struct {
	rng *rand.Rand
}

func NewMathGenerator(seed int64) *MathGenerator {
	return &MathGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns a new puzzle of a random kind at the given difficulty.
func (g *MathGenerator) Generate(difficulty models.MathDifficulty) Puzzle {
	switch g.rng.Intn(3) {
	case 0:
		return g.arithmetic(difficulty)
	case 1:
		return g.sequence(difficulty)
	default:
		return g.logic(difficulty)
	}
}

// arithmetic puzzles: easy is two-operand +/− with a nonnegative result;
// medium adds × with bounded operands; hard adds ÷ with the dividend built
// from the chosen quotient and divisor so division is always clean.
func (g *MathGenerator) arithmetic(difficulty models.MathDifficulty) Puzzle {
	var a, b, answer int
	var op string

	switch difficulty {
	case models.MathMedium:
		a = g.rng.Intn(50) + 10
		b = g.rng.Intn(20) + 1
		op = []string{"+", "-", "*"}[g.rng.Intn(3)]
		switch op {
		case "+":
			answer = a + b
		case "-":
			if a < b {
				a, b = b, a
			}
			answer = a - b
		case "*":
			b = g.rng.Intn(10) + 2
			answer = a * b
		}
	case models.MathHard:
		a = g.rng.Intn(100) + 20
		b = g.rng.Intn(30) + 5
		op = []string{"+", "-", "*", "/"}[g.rng.Intn(4)]
		switch op {
		case "+":
			answer = a + b
		case "-":
			if a < b {
				a, b = b, a
			}
			answer = a - b
		case "*":
			b = g.rng.Intn(15) + 2
			answer = a * b
		case "/":
			answer = g.rng.Intn(20) + 5
			a = answer * b
		}
	default: // easy
		a = g.rng.Intn(20) + 1
		b = g.rng.Intn(20) + 1
		if g.rng.Intn(2) == 0 {
			op = "+"
			answer = a + b
		} else {
			op = "-"
			if a < b {
				a, b = b, a
			}
			answer = a - b
		}
	}

	return Puzzle{
		Question: fmt.Sprintf("%d %s %d = ?", a, op, b),
		Answer:   answer,
		Kind:     KindArithmetic,
	}
}

func (g *MathGenerator) sequence(difficulty models.MathDifficulty) Puzzle {
	switch difficulty {
	case models.MathMedium:
		// Increments themselves grow by a fixed step.
		start := g.rng.Intn(20) + 1
		step := g.rng.Intn(5) + 2
		grow := g.rng.Intn(3) + 1
		seq := []int{start}
		inc := step
		for i := 0; i < 3; i++ {
			seq = append(seq, seq[len(seq)-1]+inc)
			inc += grow
		}
		return Puzzle{
			Question: fmt.Sprintf("Find the pattern: %s, ?", joinInts(seq)),
			Answer:   seq[len(seq)-1] + inc,
			Kind:     KindSequence,
		}
	case models.MathHard:
		// Fibonacci-style: each term is the sum of the previous two.
		a := g.rng.Intn(5) + 1
		b := g.rng.Intn(5) + 1
		seq := []int{a, b, a + b, a + 2*b, 2*a + 3*b}
		return Puzzle{
			Question: fmt.Sprintf("Continue the sequence: %s, ?", joinInts(seq)),
			Answer:   3*a + 5*b,
			Kind:     KindSequence,
		}
	default: // easy: constant step
		start := g.rng.Intn(10) + 1
		step := g.rng.Intn(5) + 1
		seq := []int{start, start + step, start + 2*step, start + 3*step}
		return Puzzle{
			Question: fmt.Sprintf("What comes next? %s, ?", joinInts(seq)),
			Answer:   start + 4*step,
			Kind:     KindSequence,
		}
	}
}

func (g *MathGenerator) logic(difficulty models.MathDifficulty) Puzzle {
	switch difficulty {
	case models.MathMedium:
		n := g.rng.Intn(90) + 10
		sum := 0
		for v := n; v > 0; v /= 10 {
			sum += v % 10
		}
		return Puzzle{
			Question: fmt.Sprintf("Sum of digits in %d?", n),
			Answer:   sum,
			Kind:     KindLogic,
		}
	case models.MathHard:
		a := g.rng.Intn(12) + 3
		b := g.rng.Intn(12) + 3
		return Puzzle{
			Question: fmt.Sprintf("What is %d times %d, minus %d?", a, b, a),
			Answer:   a*b - a,
			Kind:     KindLogic,
		}
	default: // easy
		base := g.rng.Intn(10) + 5
		return Puzzle{
			Question: fmt.Sprintf("What is %d squared?", base),
			Answer:   base * base,
			Kind:     KindLogic,
		}
	}
}

func joinInts(values []int) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%d", v)
	}
	return out
}
