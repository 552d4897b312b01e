// timer_constants.go - 8253 interval timer register offsets

package main

const (
	TIMER_CHANNELS = 3

	TIMER_REG_COUNTER0 = 0x03
	TIMER_REG_COUNTER1 = 0x07
	TIMER_REG_COUNTER2 = 0x0B
	TIMER_REG_CONTROL  = 0x0F

	TIMER_DIVIDER_MASK = 0xFFFF
)

// timerChannelReg maps a register offset to its channel index.
var timerChannelReg = map[uint32]int{
	TIMER_REG_COUNTER0: 0,
	TIMER_REG_COUNTER1: 1,
	TIMER_REG_COUNTER2: 2,
}
