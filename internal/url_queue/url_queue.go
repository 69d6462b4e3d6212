package urlqueue

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"cosponsor_spider/internal/models"
)

// Task is one bill page to fetch.
type Task struct {
	Number int
	URL    string
}

// URLQueue hands out the bill numbers of one session in ascending order
// and remembers which of them could not be fetched.
type URLQueue struct {
	Queue  []Task
	Failed map[int]string
	mu     sync.Mutex
}

func NewURLQueue(template string, session int, chamber models.Chamber, maxBills int) *URLQueue {
	q := &URLQueue{
		Queue:  make([]Task, 0, maxBills),
		Failed: make(map[int]string),
	}
	for n := 1; n <= maxBills; n++ {
		q.Queue = append(q.Queue, Task{Number: n, URL: BuildURL(template, session, n, chamber)})
	}
	return q
}

// BuildURL fills the {session}, {number}, {chamber} and {list} placeholders.
// {list} is the THOMAS listing code: SN for the Senate, HR for the House.
func BuildURL(template string, session, number int, chamber models.Chamber) string {
	list := "SN"
	if chamber == models.ChamberHouse {
		list = "HR"
	}
	return strings.NewReplacer(
		"{session}", strconv.Itoa(session),
		"{number}", strconv.Itoa(number),
		"{chamber}", chamber.Code(),
		"{list}", list,
	).Replace(template)
}

func (q *URLQueue) Get() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.Queue) == 0 {
		return Task{}, false
	}
	t := q.Queue[0]
	q.Queue = q.Queue[1:]
	return t, true
}

// Drain removes and returns every pending task.
func (q *URLQueue) Drain() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	tasks := q.Queue
	q.Queue = nil
	return tasks
}

func (q *URLQueue) MarkFailed(number int, reason string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Failed[number] = reason
}

// FailedNumbers returns the failed bill numbers in ascending order.
func (q *URLQueue) FailedNumbers() []int {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]int, 0, len(q.Failed))
	for n := range q.Failed {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

func (q *URLQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.Queue)
}
