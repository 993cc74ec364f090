package modbusctrl

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	mbserver "github.com/tbrandon/mbserver"

	"github.com/Agrid-Dev/retrofitcalc/internal/ports"
	"github.com/Agrid-Dev/retrofitcalc/internal/report"
)

// Register map, one scenario per server:
//
//	coils            0..n-1  appliance enabled flags, in report order
//	holding  HR0           internal temperature, int16 x TemperatureScale
//	holding  HR1           external temperature, int16 x TemperatureScale
//	input    IR0..IR15     float32 pairs, high word first (see inputRegisters)
const (
	hrInternalTemperature = 0
	hrExternalTemperature = 1
	holdingRegisterCount  = 2
)

// Config for the Modbus controller.
type Config struct {
	DeviceID   string
	Addr       string
	UnitID     byte // UnitID (Modbus slave/unit ID). Use an integer 1..247.
	ScenarioID string
}

type Controller struct {
	svc ports.ScenarioService
	cfg Config

	serv *mbserver.Server
}

func New(svc ports.ScenarioService, cfg Config) (*Controller, error) {
	if cfg.UnitID == 0 {
		return nil, errors.New("modbus: UnitID is required (non-zero)")
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:1502"
	}
	if cfg.ScenarioID == "" {
		ids := svc.IDs()
		if len(ids) == 0 {
			return nil, errors.New("modbus: no scenario to expose")
		}
		cfg.ScenarioID = ids[0]
	}
	if _, err := svc.Report(cfg.ScenarioID); err != nil {
		return nil, fmt.Errorf("modbus: %w", err)
	}
	return &Controller{svc: svc, cfg: cfg}, nil
}

// Run starts the Modbus server with handlers that read from and write to the
// scenario service directly. It blocks until ctx is canceled.
func (c *Controller) Run(ctx context.Context) error {
	serv := mbserver.NewServer()
	c.serv = serv

	// Register handlers BEFORE starting the TCP listener to avoid races inside mbserver
	// between handler registration and the server's goroutines.
	serv.RegisterFunctionHandler(1, c.readCoils)
	serv.RegisterFunctionHandler(3, c.readHoldingRegisters)
	serv.RegisterFunctionHandler(4, c.readInputRegisters)
	serv.RegisterFunctionHandler(5, c.writeSingleCoil)
	serv.RegisterFunctionHandler(6, c.writeSingleRegister)
	serv.RegisterFunctionHandler(15, c.writeMultipleCoils)
	serv.RegisterFunctionHandler(16, c.writeMultipleRegisters)

	if err := serv.ListenTCP(c.cfg.Addr); err != nil {
		return fmt.Errorf("mbserver listen tcp %s: %w", c.cfg.Addr, err)
	}

	<-ctx.Done()
	serv.Close()
	return ctx.Err()
}

// ---- function handlers ----

// Read Coils (function 1): one coil per appliance.
func (c *Controller) readCoils(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	start, qty, exc := readRange(frame.GetData(), 2000)
	if exc != nil {
		return []byte{}, exc
	}
	sum, err := c.svc.Report(c.cfg.ScenarioID)
	if err != nil {
		return []byte{}, &mbserver.SlaveDeviceFailure
	}
	if start+qty > len(sum.Appliances) {
		return []byte{}, &mbserver.IllegalDataAddress
	}
	byteCount := (qty + 7) / 8
	resp := make([]byte, 1+byteCount)
	resp[0] = byte(byteCount)
	for i := 0; i < qty; i++ {
		if sum.Appliances[start+i].Enabled {
			resp[1+i/8] |= 1 << (i % 8)
		}
	}
	return resp, &mbserver.Success
}

// Read Holding Registers (function 3): temperatures.
func (c *Controller) readHoldingRegisters(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	start, qty, exc := readRange(frame.GetData(), 125)
	if exc != nil {
		return []byte{}, exc
	}
	if start+qty > holdingRegisterCount {
		return []byte{}, &mbserver.IllegalDataAddress
	}
	sum, err := c.svc.Report(c.cfg.ScenarioID)
	if err != nil {
		return []byte{}, &mbserver.SlaveDeviceFailure
	}
	regs := []uint16{
		hrInternalTemperature: encodeTemp(sum.InternalTemperature),
		hrExternalTemperature: encodeTemp(sum.ExternalTemperature),
	}
	return registerResponse(regs[start : start+qty]), &mbserver.Success
}

// Read Input Registers (function 4): computed figures as float32.
func (c *Controller) readInputRegisters(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	start, qty, exc := readRange(frame.GetData(), 125)
	if exc != nil {
		return []byte{}, exc
	}
	sum, err := c.svc.Report(c.cfg.ScenarioID)
	if err != nil {
		return []byte{}, &mbserver.SlaveDeviceFailure
	}
	regs := inputRegisters(sum)
	if start+qty > len(regs) {
		return []byte{}, &mbserver.IllegalDataAddress
	}
	return registerResponse(regs[start : start+qty]), &mbserver.Success
}

// Write Single Coil (function 5): enable or disable one appliance.
func (c *Controller) writeSingleCoil(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	data := frame.GetData()
	if len(data) < 4 {
		return []byte{}, &mbserver.IllegalDataValue
	}
	addr := int(binary.BigEndian.Uint16(data[0:2]))
	value := binary.BigEndian.Uint16(data[2:4])

	var on bool
	switch value {
	case 0x0000:
		on = false
	case 0xFF00:
		on = true
	default:
		return []byte{}, &mbserver.IllegalDataValue
	}

	if exc := c.setCoil(addr, on); exc != nil {
		return []byte{}, exc
	}

	// echo request (address + value)
	resp := make([]byte, 4)
	copy(resp, data[0:4])
	return resp, &mbserver.Success
}

// Write Multiple Coils (function 15).
func (c *Controller) writeMultipleCoils(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	d := frame.GetData()
	if len(d) < 5 {
		return []byte{}, &mbserver.IllegalDataValue
	}
	start := binary.BigEndian.Uint16(d[0:2])
	quantity := binary.BigEndian.Uint16(d[2:4])
	byteCount := int(d[4])
	if quantity == 0 || byteCount != (int(quantity)+7)/8 || len(d) < 5+byteCount {
		return []byte{}, &mbserver.IllegalDataValue
	}
	// Whole range first: a rejected request writes nothing.
	sum, err := c.svc.Report(c.cfg.ScenarioID)
	if err != nil {
		return []byte{}, &mbserver.SlaveDeviceFailure
	}
	if int(start)+int(quantity) > len(sum.Appliances) {
		return []byte{}, &mbserver.IllegalDataAddress
	}
	for i := 0; i < int(quantity); i++ {
		on := d[5+i/8]&(1<<(i%8)) != 0
		if exc := c.setCoil(int(start)+i, on); exc != nil {
			return []byte{}, exc
		}
	}

	resp := make([]byte, 4)
	binary.BigEndian.PutUint16(resp[0:2], start)
	binary.BigEndian.PutUint16(resp[2:4], quantity)
	return resp, &mbserver.Success
}

// Write Single Register (function 6)
func (c *Controller) writeSingleRegister(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	data := frame.GetData()
	if len(data) < 4 {
		return []byte{}, &mbserver.IllegalDataValue
	}
	addr := int(binary.BigEndian.Uint16(data[0:2]))
	value := binary.BigEndian.Uint16(data[2:4])

	if exc := c.setRegister(addr, value); exc != nil {
		return []byte{}, exc
	}

	resp := make([]byte, 4)
	copy(resp, data[0:4])
	return resp, &mbserver.Success
}

// Write Multiple Registers (function 16)
func (c *Controller) writeMultipleRegisters(_ *mbserver.Server, frame mbserver.Framer) ([]byte, *mbserver.Exception) {
	d := frame.GetData()
	if len(d) < 5 {
		return []byte{}, &mbserver.IllegalDataValue
	}
	start := binary.BigEndian.Uint16(d[0:2])
	quantity := binary.BigEndian.Uint16(d[2:4])
	byteCount := int(d[4])
	if quantity == 0 || byteCount != int(quantity)*2 || len(d) < 5+byteCount {
		return []byte{}, &mbserver.IllegalDataValue
	}
	// Whole range first: a rejected request writes nothing.
	if int(start)+int(quantity) > holdingRegisterCount {
		return []byte{}, &mbserver.IllegalDataAddress
	}
	for i := 0; i < int(quantity); i++ {
		val := binary.BigEndian.Uint16(d[5+i*2 : 5+i*2+2])
		if exc := c.setRegister(int(start)+i, val); exc != nil {
			return []byte{}, exc
		}
	}

	resp := make([]byte, 4)
	binary.BigEndian.PutUint16(resp[0:2], start)
	binary.BigEndian.PutUint16(resp[2:4], quantity)
	return resp, &mbserver.Success
}

// ---- service bridge ----

func (c *Controller) setCoil(addr int, on bool) *mbserver.Exception {
	sum, err := c.svc.Report(c.cfg.ScenarioID)
	if err != nil {
		return &mbserver.SlaveDeviceFailure
	}
	if addr < 0 || addr >= len(sum.Appliances) {
		return &mbserver.IllegalDataAddress
	}
	if err := c.svc.SetApplianceEnabled(c.cfg.ScenarioID, sum.Appliances[addr].ID, on); err != nil {
		return &mbserver.IllegalDataValue
	}
	return nil
}

func (c *Controller) setRegister(addr int, value uint16) *mbserver.Exception {
	var err error
	switch addr {
	case hrInternalTemperature:
		err = c.svc.SetInternalTemperature(c.cfg.ScenarioID, decodeTemp(value))
	case hrExternalTemperature:
		err = c.svc.SetExternalTemperature(c.cfg.ScenarioID, decodeTemp(value))
	default:
		return &mbserver.IllegalDataAddress
	}
	if err != nil {
		return &mbserver.IllegalDataValue
	}
	return nil
}

// ---- encoding ----

// inputRegisters lays out the computed figures, two registers each.
func inputRegisters(s report.Summary) []uint16 {
	values := []float64{
		s.VolumeM3,                 // IR0
		s.GrossFloorAreaM2,         // IR2
		s.EnvelopeHeatLossW,        // IR4
		s.Cost,                     // IR6
		s.EmbodiedCarbonKg,         // IR8
		s.OperationalCarbonKgMonth, // IR10
		s.HeatingPowerW,            // IR12
		s.CoolingPowerW,            // IR14
	}
	regs := make([]uint16, 0, len(values)*2)
	for _, v := range values {
		regs = append(regs, encodeFloat32(v)...)
	}
	return regs
}

func readRange(data []byte, maxQty int) (start, qty int, exc *mbserver.Exception) {
	if len(data) < 4 {
		return 0, 0, &mbserver.IllegalDataValue
	}
	start = int(binary.BigEndian.Uint16(data[0:2]))
	qty = int(binary.BigEndian.Uint16(data[2:4]))
	if qty == 0 || qty > maxQty {
		return 0, 0, &mbserver.IllegalDataValue
	}
	return start, qty, nil
}

// registerResponse builds byte count + register bytes.
func registerResponse(regs []uint16) []byte {
	byteCount := len(regs) * 2
	resp := make([]byte, 1+byteCount)
	resp[0] = byte(byteCount)
	for i, r := range regs {
		binary.BigEndian.PutUint16(resp[1+i*2:1+i*2+2], r)
	}
	return resp
}

const TemperatureScale int = 100

func encodeTemp(v float64) uint16 {
	r := min(max(int(math.Round(v*float64(TemperatureScale))), math.MinInt16), math.MaxInt16)
	return uint16(int16(r))
}

func decodeTemp(u uint16) float64 {
	i := int16(u)
	return float64(i) / float64(TemperatureScale)
}

func encodeFloat32(v float64) []uint16 {
	bits := math.Float32bits(float32(v))
	return []uint16{uint16(bits >> 16), uint16(bits)}
}

func decodeFloat32(hi, lo uint16) float32 {
	return math.Float32frombits(uint32(hi)<<16 | uint32(lo))
}
