package main

import (
	"bytes"
	"testing"
)

type uartRig struct {
	uart    *UART
	csr     *CSR
	cpu     *IRQLatch
	console *ConsoleIO
}

func newUARTRig(t *testing.T) *uartRig {
	t.Helper()
	r := &uartRig{csr: NewCSR(), cpu: NewIRQLatch(), console: NewConsoleIO()}
	r.uart = NewUART(NewInterruptBus(r.csr, r.cpu), r.console, 0)
	if err := r.uart.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	return r
}

func (r *uartRig) write(reg uint32, v uint8) {
	r.uart.HandleWrite(UART_BASE+reg, ACCESS_8, uint32(v))
}

func (r *uartRig) read(reg uint32) uint32 {
	return r.uart.HandleRead(UART_BASE+reg, ACCESS_8)
}

func TestUART_ModeRegisterCycles(t *testing.T) {
	for _, reg := range []uint32{UART_REG_MODE_A, UART_REG_MODE_B} {
		r := newUARTRig(t)
		r.write(reg, 0x13)
		r.write(reg, 0x07)

		want := []uint32{0x13, 0x07, 0x13, 0x07}
		for i, w := range want {
			if got := r.read(reg); got != w {
				t.Fatalf("reg 0x%02X read %d: expected 0x%02X, got 0x%02X", reg, i, w, got)
			}
		}
	}
}

func TestUART_ResetModePointerCommand(t *testing.T) {
	r := newUARTRig(t)
	r.write(UART_REG_MODE_A, 0x13)
	r.write(UART_REG_MODE_A, 0x07)
	r.read(UART_REG_MODE_A)

	r.write(UART_REG_CMD_A, UART_MISC_RESET_MR<<CMD_V_CMD)
	if got := r.read(UART_REG_MODE_A); got != 0x13 {
		t.Fatalf("expected MR1 after pointer reset, got 0x%02X", got)
	}
}

func TestUART_EnableTransmitterRaisesInterrupt(t *testing.T) {
	r := newUARTRig(t)
	r.write(UART_REG_ISTAT, ISTS_TAI)
	r.write(UART_REG_CMD_A, CMD_ETX)

	if st := r.uart.Status(UART_PORT_A); st&(STS_TXR|STS_TXE) != STS_TXR|STS_TXE {
		t.Fatalf("expected TXR|TXE, got 0x%02X", st)
	}
	if r.uart.IStat()&ISTS_TAI == 0 {
		t.Fatalf("expected TAI in istat, got 0x%02X", r.uart.IStat())
	}
	if !r.csr.Test(CSR_UART) {
		t.Fatalf("expected UART cause in CSR")
	}
	vector, priority, ok := r.cpu.Pending()
	if !ok || vector != UART_IRQ_VECTOR || priority != UART_IRQ_PRIORITY {
		t.Fatalf("expected CPU request 9/9, got %d/%d pending=%v", vector, priority, ok)
	}

	r.write(UART_REG_CMD_A, CMD_DTX)
	if r.uart.Status(UART_PORT_A)&(STS_TXR|STS_TXE) != 0 {
		t.Fatalf("expected transmitter status cleared, got 0x%02X", r.uart.Status(UART_PORT_A))
	}
	if r.csr.Test(CSR_UART) {
		t.Fatalf("expected UART cause cleared once nothing is unmasked")
	}
}

func TestUART_MaskedTransmitterStaysQuiet(t *testing.T) {
	r := newUARTRig(t)
	r.write(UART_REG_CMD_B, CMD_ETX)

	if r.uart.IStat()&ISTS_TBI == 0 {
		t.Fatalf("expected TBI in istat")
	}
	if r.csr.Test(CSR_UART) {
		t.Fatalf("expected no UART cause with empty mask")
	}
	if _, _, ok := r.cpu.Pending(); ok {
		t.Fatalf("expected no CPU request")
	}
}

func TestUART_TransmitGoesToSinks(t *testing.T) {
	r := newUARTRig(t)
	var portB bytes.Buffer
	r.uart.SetPortSink(UART_PORT_B, &portB)

	r.write(UART_REG_DATA_A, 'x')
	if out := r.console.DrainOutput(); out != "" {
		t.Fatalf("expected nothing with transmitter disabled, got %q", out)
	}

	r.write(UART_REG_CMD_A, CMD_ETX)
	r.write(UART_REG_CMD_B, CMD_ETX)
	for _, c := range []byte("ok") {
		r.write(UART_REG_DATA_A, c)
	}
	r.write(UART_REG_DATA_B, '!')

	if out := r.console.DrainOutput(); out != "ok" {
		t.Fatalf("expected \"ok\" on console, got %q", out)
	}
	if portB.String() != "!" {
		t.Fatalf("expected \"!\" on port B, got %q", portB.String())
	}
	if r.uart.Status(UART_PORT_A)&STS_RXR != 0 {
		t.Fatalf("expected transmit not to touch RXR")
	}
}

func TestUART_ReceiveAndOverrun(t *testing.T) {
	r := newUARTRig(t)
	r.write(UART_REG_ISTAT, ISTS_RAI)
	r.write(UART_REG_CMD_A, CMD_ERX)

	r.uart.ReceiveByte('a')
	if !r.csr.Test(CSR_UART) {
		t.Fatalf("expected UART cause after receive")
	}
	r.uart.ReceiveByte('b')

	got := r.read(UART_REG_DATA_A)
	if got&0xFF != 'a' {
		t.Fatalf("expected first byte kept, got %q", rune(got&0xFF))
	}
	if st := uint8(got >> 8); st&(STS_RXR|STS_OER) != STS_RXR|STS_OER {
		t.Fatalf("expected RXR|OER in status byte, got 0x%02X", st)
	}
	if r.uart.Status(UART_PORT_A)&STS_RXR != 0 {
		t.Fatalf("expected RXR cleared by data read")
	}
	if r.uart.IStat()&ISTS_RAI != 0 {
		t.Fatalf("expected RAI cleared by data read")
	}

	r.write(UART_REG_CMD_A, UART_MISC_RESET_ERR<<CMD_V_CMD)
	if r.uart.Status(UART_PORT_A)&STS_OER != 0 {
		t.Fatalf("expected OER cleared by error reset")
	}
}

func TestUART_ReceiveWithReceiverDisabled(t *testing.T) {
	r := newUARTRig(t)
	r.uart.ReceiveByte('z')
	if r.uart.Status(UART_PORT_A)&STS_RXR != 0 || r.uart.IStat()&ISTS_RAI != 0 {
		t.Fatalf("expected byte dropped with receiver off")
	}
}

func TestUART_StatusReadSideEffects(t *testing.T) {
	r := newUARTRig(t)
	r.write(UART_REG_CMD_A, CMD_ERX)
	r.write(UART_REG_CMD_B, CMD_ERX)
	r.uart.ReceiveByte('q')

	if got := r.read(UART_REG_STAT_B); got&STS_RXR == 0 {
		t.Fatalf("expected RXR in status B, got 0x%02X", got)
	}
	if r.uart.Status(UART_PORT_B)&STS_RXR == 0 {
		t.Fatalf("expected status B read to keep RXR")
	}

	if got := r.read(UART_REG_STAT_A); got&STS_RXR == 0 {
		t.Fatalf("expected RXR in status A, got 0x%02X", got)
	}
	if r.uart.Status(UART_PORT_A)&STS_RXR != 0 {
		t.Fatalf("expected status A read to clear RXR")
	}
}

func TestUART_CounterOneShot(t *testing.T) {
	r := newUARTRig(t)
	r.write(UART_REG_ISTAT, ISTS_CRI)
	r.write(UART_REG_CTU, 0)
	r.write(UART_REG_CTL, 3)
	r.read(UART_REG_START_CT)

	r.uart.Service()
	r.uart.Service()
	if r.uart.IStat()&ISTS_CRI != 0 {
		t.Fatalf("expected counter still running after 2 ticks")
	}
	r.uart.Service()
	if r.uart.IStat()&ISTS_CRI == 0 {
		t.Fatalf("expected CRI after 3 ticks")
	}
	if !r.csr.Test(CSR_UART) {
		t.Fatalf("expected UART cause on counter expiry")
	}
	value, preset, enabled := r.uart.Counter()
	if value != 3 || preset != 3 || enabled {
		t.Fatalf("expected reload to 3 and stop, got %d/%d running=%v", value, preset, enabled)
	}

	r.uart.Service()
	if v, _, _ := r.uart.Counter(); v != 3 {
		t.Fatalf("expected stopped counter to hold, got %d", v)
	}

	r.read(UART_REG_STOP_CT)
	if r.uart.IStat()&ISTS_CRI != 0 {
		t.Fatalf("expected stop counter read to clear CRI")
	}
}

func TestUART_CounterStep(t *testing.T) {
	r := newUARTRig(t)
	r.uart = NewUART(NewInterruptBus(r.csr), nil, 100)
	r.write(UART_REG_CTU, 0x01)
	r.write(UART_REG_CTL, 0x2C) // 300
	r.read(UART_REG_START_CT)

	for i := 0; i < 3; i++ {
		r.uart.Service()
	}
	if r.uart.IStat()&ISTS_CRI == 0 {
		t.Fatalf("expected expiry after 3 ticks of 100")
	}
	if r.csr.Test(CSR_UART) {
		t.Fatalf("expected no UART cause with CRI masked")
	}
}

func TestUART_ConsolePolledOnlyWithReceiverEnabled(t *testing.T) {
	r := newUARTRig(t)
	r.console.EnqueueString("hi")

	r.uart.Service()
	if r.console.Pending() != 2 {
		t.Fatalf("expected console untouched, got %d pending", r.console.Pending())
	}

	r.write(UART_REG_CMD_A, CMD_ERX)
	r.uart.Service()
	if r.console.Pending() != 1 {
		t.Fatalf("expected one byte polled, got %d pending", r.console.Pending())
	}
	if got := r.read(UART_REG_DATA_A) & 0xFF; got != 'h' {
		t.Fatalf("expected 'h', got %q", rune(got))
	}

	r.uart.Service()
	if got := r.read(UART_REG_DATA_A) & 0xFF; got != 'i' {
		t.Fatalf("expected 'i', got %q", rune(got))
	}
}

func TestUART_ResetKeepsSinks(t *testing.T) {
	r := newUARTRig(t)
	r.write(UART_REG_CMD_A, CMD_ETX|CMD_ERX)
	r.write(UART_REG_ISTAT, 0xFF)
	if err := r.uart.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if r.uart.Command(UART_PORT_A) != 0 || r.uart.IMask() != 0 || r.uart.IStat() != 0 {
		t.Fatalf("expected cleared registers after reset")
	}
	r.write(UART_REG_CMD_A, CMD_ETX)
	r.write(UART_REG_DATA_A, 'k')
	if out := r.console.DrainOutput(); out != "k" {
		t.Fatalf("expected console still attached, got %q", out)
	}
}
