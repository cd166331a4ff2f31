package framework

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
)

// DefaultBatch is the number of cycles a running loop evaluates between
// checks for cancellation.
const DefaultBatch = 1024

// Loop evaluates controllers once per clock cycle.
type Loop struct {
	// Interval paces a running loop: Batch cycles are evaluated every
	// Interval. Zero runs the loop as fast as possible.
	Interval time.Duration
	// Batch is the number of cycles evaluated at a time.
	Batch int

	controllers [PriorityLevels]controllerList

	runners []Runnable

	messages messageList
	lock     sync.Mutex

	cycle    uint64
	wakeUpCh chan struct{}
}

// LoopAdder provides specific logic to add components to loop.
type LoopAdder interface {
	AddToLoop(*Loop)
}

type loopCtl struct {
	*Loop
}

type cycleContext struct {
	loopCtl
	ctx           context.Context
	cycle         uint64
	priorityLevel int
	messages      messageList
}

type messageList struct {
	head *messageItem
	tail *messageItem
}

type messageItem struct {
	msg  Message
	next *messageItem
}

func (l *messageList) append(item *messageItem) {
	if l.head == nil {
		l.head = item
	} else {
		l.tail.next = item
	}
	l.tail = item
}

func (l *messageList) splice(src *messageList) {
	l.head, l.tail, src.head, src.tail = src.head, src.tail, nil, nil
}

func (l *messageList) concat(lst *messageList) {
	if l.head == nil {
		l.head = lst.head
	} else {
		l.tail.next = lst.head
	}
	if lst.head != nil {
		l.tail = lst.tail
	}
}

func (l *messageList) len() (n int) {
	for item := l.head; item != nil; item = item.next {
		n++
	}
	return
}

type controllerList struct {
	preHooks    []Controller
	controllers []Controller
	postHooks   []Controller
	lock        sync.Mutex
}

var (
	loopCtxKey = &Loop{}
)

// LoopCtlFrom gets LoopCtl from context.
func LoopCtlFrom(ctx context.Context) LoopControl {
	return ctx.Value(loopCtxKey).(LoopControl)
}

// CtlCtxFrom gets ControlContext from context.
func CtlCtxFrom(ctx context.Context) ControlContext {
	return ctx.Value(loopCtxKey).(ControlContext)
}

// NewLoop creates a free running Loop.
func NewLoop() *Loop {
	return &Loop{Batch: DefaultBatch, wakeUpCh: make(chan struct{}, 1)}
}

// Add adds LoopAdders.
func (l *Loop) Add(adders ...LoopAdder) *Loop {
	for _, adder := range adders {
		adder.AddToLoop(l)
	}
	return l
}

// AddController registers controllers to the loop.
func (l *Loop) AddController(priorityLevel int, ctls ...Controller) *Loop {
	lst := &l.controllers[priorityLevel]
	lst.controllers = append(lst.controllers, ctls...)
	for _, ctl := range ctls {
		if runner, ok := ctl.(Runnable); ok {
			l.runners = append(l.runners, runner)
		}
	}
	return l
}

// AddRunnable adds Runnable implementions started together with Run.
func (l *Loop) AddRunnable(runnables ...Runnable) *Loop {
	l.runners = append(l.runners, runnables...)
	return l
}

// Cycles gets the number of cycles evaluated so far.
func (l *Loop) Cycles() uint64 {
	return atomic.LoadUint64(&l.cycle)
}

// Step evaluates exactly one cycle. It must not be called while Run is
// active.
func (l *Loop) Step() {
	l.runCycle(context.Background())
}

// RunCycles evaluates n cycles. It must not be called while Run is active.
func (l *Loop) RunCycles(n uint64) {
	ctx := context.Background()
	for i := uint64(0); i < n; i++ {
		l.runCycle(ctx)
	}
}

// Run implements Runnable.
func (l *Loop) Run(ctx context.Context) error {
	l.lock.Lock()
	if l.wakeUpCh == nil {
		l.wakeUpCh = make(chan struct{}, 1)
	}
	l.lock.Unlock()

	runner := NewRunnerWith(context.WithValue(ctx, loopCtxKey, &loopCtl{l}))
	runner.Go(l.runners...)
	defer runner.Wait()

	batch := l.Batch
	if batch <= 0 {
		batch = DefaultBatch
	}
	glog.V(4).Infof("loop started: interval %v, batch %d", l.Interval, batch)

	if l.Interval <= 0 {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				l.runBatch(ctx, batch)
			}
		}
	}

	ticker := time.NewTicker(l.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.runBatch(ctx, batch)
		case <-l.wakeUpCh:
			l.runBatch(ctx, batch)
		}
	}
}

// PreRunAt implements LoopCtl.
func (l *Loop) PreRunAt(priorityLevel int, hooks ...Controller) {
	lst := &l.controllers[priorityLevel]
	lst.lock.Lock()
	lst.preHooks = append(lst.preHooks, hooks...)
	lst.lock.Unlock()
}

// PostRunAt implements LoopCtl.
func (l *Loop) PostRunAt(priorityLevel int, hooks ...Controller) {
	lst := &l.controllers[priorityLevel]
	lst.lock.Lock()
	lst.postHooks = append(lst.postHooks, hooks...)
	lst.lock.Unlock()
}

// PostMessage implements LoopCtl.
func (l *Loop) PostMessage(msg Message) {
	l.lock.Lock()
	l.messages.append(&messageItem{msg: msg})
	l.lock.Unlock()
}

// PendingMessages gets the number of messages waiting for the next cycle.
func (l *Loop) PendingMessages() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.messages.len()
}

// TriggerNext implements LoopCtl.
func (l *Loop) TriggerNext() {
	l.lock.Lock()
	ch := l.wakeUpCh
	l.lock.Unlock()
	if ch == nil {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (l *Loop) runBatch(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		l.runCycle(ctx)
	}
}

func (l *Loop) runCycle(ctx context.Context) {
	c := &cycleContext{loopCtl: loopCtl{l}, cycle: atomic.LoadUint64(&l.cycle)}
	l.lock.Lock()
	c.messages.splice(&l.messages)
	l.lock.Unlock()
	c.ctx = context.WithValue(ctx, loopCtxKey, c)
	for i := 0; i < PriorityLevels; i++ {
		c.priorityLevel = i
		l.controllers[i].run(c)
	}
	if n := c.messages.len(); n > 0 {
		glog.V(4).Infof("cycle %d: %d messages dropped", c.cycle, n)
	}
	atomic.AddUint64(&l.cycle, 1)
}

func (c *cycleContext) Context() context.Context {
	return c.ctx
}

func (c *cycleContext) Cycle() uint64 {
	return c.cycle
}

func (c *cycleContext) PriorityLevel() int {
	return c.priorityLevel
}

func (c *cycleContext) Messages() MessageStore {
	return c
}

func (c *cycleContext) PostRun(hooks ...Controller) {
	c.PostRunAt(c.priorityLevel, hooks...)
}

// MessageStore implementations

type messageContext struct {
	cycle *cycleContext
	item  *messageItem
	taken bool
	stop  bool
}

func (c *messageContext) CurrentMessage() Message     { return c.item.msg }
func (c *messageContext) MessageTaken()               { c.taken = true }
func (c *messageContext) StopProcessing()             { c.stop = true }
func (c *messageContext) AddMessages(msgs ...Message) { c.cycle.AddMessages(msgs...) }

func (c *cycleContext) ProcessMessages(proc MessageProcessor) {
	var msgs, remains messageList
	msgs.splice(&c.messages)
	for msgs.head != nil {
		mctx := &messageContext{cycle: c, item: msgs.head}
		msgs.head = msgs.head.next
		mctx.item.next = nil
		proc.ProcessMessage(mctx)
		if !mctx.taken {
			remains.append(mctx.item)
		}
		if mctx.stop {
			remains.concat(&msgs)
			break
		}
	}
	remains.concat(&c.messages)
	c.messages = remains
}

func (c *cycleContext) AddMessages(msgs ...Message) {
	for _, msg := range msgs {
		c.messages.append(&messageItem{msg: msg})
	}
}

func (c *controllerList) run(cycle *cycleContext) {
	c.lock.Lock()
	ctls := c.preHooks
	c.preHooks = nil
	c.lock.Unlock()
	runControllers(cycle, ctls)
	runControllers(cycle, c.controllers)
	c.lock.Lock()
	ctls, c.postHooks = c.postHooks, nil
	c.lock.Unlock()
	runControllers(cycle, ctls)
}

func runControllers(cycle *cycleContext, ctls []Controller) {
	for _, ctl := range ctls {
		if err := ctl.Control(cycle); err != nil {
			glog.Errorf("cycle %d: controller error: %v", cycle.cycle, err)
		}
	}
}
