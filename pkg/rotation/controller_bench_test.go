package rotation

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func BenchmarkNavigate(b *testing.B) {
	c, err := New([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, time.Second,
		WithClock(clockwork.NewFakeClock()),
		WithProgress(2, 100*time.Millisecond),
		WithOnChange(func(State, Cause) {}),
	)
	if err != nil {
		b.Fatal(err)
	}
	c.Start()
	defer c.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		switch i % 3 {
		case 0:
			c.Advance()
		case 1:
			c.Retreat()
		default:
			_ = c.JumpTo(i % c.Len())
		}
	}
}

func BenchmarkState(b *testing.B) {
	c, err := New([]string{"a", "b", "c"}, time.Second, WithClock(clockwork.NewFakeClock()))
	if err != nil {
		b.Fatal(err)
	}
	defer c.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.State()
	}
}
