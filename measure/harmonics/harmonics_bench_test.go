package harmonics

import (
	"math"
	"testing"
)

func BenchmarkAnalyze(b *testing.B) {
	sizes := []int{1024, 4096, 16384}
	for _, n := range sizes {
		b.Run("n_"+itoa(n), func(b *testing.B) {
			signal := make([]float64, n)
			for i := range signal {
				signal[i] = math.Sin(2 * math.Pi * 750 * float64(i) / testSampleRate)
			}

			a := NewAnalyzer(testSampleRate)
			a.Fundamental = 750

			b.ReportAllocs()
			b.ResetTimer()

			for range b.N {
				_, _ = a.Analyze(signal)
			}
		})
	}
}

func itoa(v int) string {
	if v == 0 {
		return "0"
	}

	buf := [20]byte{}

	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}

	return string(buf[i:])
}
