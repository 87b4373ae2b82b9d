package exchanger

import "mshe/thermo"

// 流股类型：热流股放热，冷流股吸热
type StreamKind int

const (
	Hot StreamKind = iota
	Cold
)

func (k StreamKind) String() string {
	if k == Hot {
		return "hot"
	}
	return "cold"
}

// 与换热器相连的一条流股
// 求解过程中只有 OutletTemp 会被修改，其余字段保持登记时的值
type Stream struct {
	Fluid        *thermo.Fluid
	Kind         StreamKind
	Pressure     float64 // bara，换热过程按等压处理
	MassFlowRate float64 // kg/s
	InletTemp    float64 // ℃
	OutletTemp   float64 // ℃，未知时由求解器赋值
	Unknown      bool    // 出口温度是否未知

	hInlet float64 // 入口比焓 kJ/kg，Solve 开始时算一次
	load   float64 // 当前负荷 kW，吸热为正
}

// 当前出口温度猜测下的负荷 (h出 − h入) × 质量流量
func (s *Stream) computeLoad() (float64, error) {
	hOut, err := s.Fluid.Enthalpy(s.Pressure, s.OutletTemp)
	if err != nil {
		return 0, err
	}
	s.load = (hOut - s.hInlet) * s.MassFlowRate
	return s.load, nil
}
