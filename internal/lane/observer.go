package lane

import "time"

// Observer получает события линий для метрик.
// Вызовы приходят из разных горутин.
type Observer interface {
	Delivered(lane, size int, took time.Duration)
	Failed(lane, size int)
	Dropped(lane, count int)
	Overflowed(lane int)
	Buffered(lane, size int)
}

type nopObserver struct{}

func (nopObserver) Delivered(int, int, time.Duration) {}
func (nopObserver) Failed(int, int)                   {}
func (nopObserver) Dropped(int, int)                  {}
func (nopObserver) Overflowed(int)                    {}
func (nopObserver) Buffered(int, int)                 {}
