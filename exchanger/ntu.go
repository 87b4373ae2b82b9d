package exchanger

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"mshe/thermo"
)

// 流动布置
const (
	Counterflow  = "counterflow"
	Parallelflow = "parallelflow"
	ShellAndTube = "shell and tube"
)

// 两流股 ε-NTU 换热器
// 给定 UA 的闭式解，不需要迭代，物性走同一个物性包
type NTUExchanger struct {
	hot         *Stream
	cold        *Stream
	ua          float64 // W/K
	arrangement string

	effectiveness float64
	duty          float64 // kW
	solved        bool
}

func NewNTUExchanger(ua float64, arrangement string) *NTUExchanger {
	if arrangement == "" {
		arrangement = Counterflow
	}
	return &NTUExchanger{ua: ua, arrangement: arrangement}
}

func (n *NTUExchanger) SetHotStream(fluid *thermo.Fluid, pressure, massFlow, inletTemp float64) {
	n.hot = &Stream{Fluid: fluid, Kind: Hot, Pressure: pressure, MassFlowRate: massFlow, InletTemp: inletTemp, Unknown: true}
}

func (n *NTUExchanger) SetColdStream(fluid *thermo.Fluid, pressure, massFlow, inletTemp float64) {
	n.cold = &Stream{Fluid: fluid, Kind: Cold, Pressure: pressure, MassFlowRate: massFlow, InletTemp: inletTemp, Unknown: true}
}

// 求解两个出口温度
// 热容流率按 被拉到对方入口温度 的最大焓变折算，出口温度用 PH 闪蒸反推
func (n *NTUExchanger) Solve() error {
	n.solved = false
	if n.hot == nil || n.cold == nil {
		return fmt.Errorf("冷热流股都必须设置")
	}
	if n.hot.InletTemp <= n.cold.InletTemp {
		return fmt.Errorf("热流股入口 %.2f ℃ 必须高于冷流股入口 %.2f ℃", n.hot.InletTemp, n.cold.InletTemp)
	}

	hHotIn, err := n.hot.Fluid.Enthalpy(n.hot.Pressure, n.hot.InletTemp)
	if err != nil {
		return err
	}
	hHotMin, err := n.hot.Fluid.Enthalpy(n.hot.Pressure, n.cold.InletTemp)
	if err != nil {
		return err
	}
	hColdIn, err := n.cold.Fluid.Enthalpy(n.cold.Pressure, n.cold.InletTemp)
	if err != nil {
		return err
	}
	hColdMax, err := n.cold.Fluid.Enthalpy(n.cold.Pressure, n.hot.InletTemp)
	if err != nil {
		return err
	}

	dT := n.hot.InletTemp - n.cold.InletTemp
	qHotMax := (hHotIn - hHotMin) * n.hot.MassFlowRate // kW
	qColdMax := (hColdMax - hColdIn) * n.cold.MassFlowRate
	cHot := qHotMax / dT
	cCold := qColdMax / dT
	cMin := math.Min(cHot, cCold)
	cMax := math.Max(cHot, cCold)
	cr := cMin / cMax
	ntu := n.ua / kwToW / cMin

	n.effectiveness = thermalEffectiveness(ntu, cr, n.arrangement)
	n.duty = n.effectiveness * math.Min(qHotMax, qColdMax)

	tHotOut, err := n.hot.Fluid.Temperature(n.hot.Pressure, hHotIn-n.duty/n.hot.MassFlowRate)
	if err != nil {
		return err
	}
	tColdOut, err := n.cold.Fluid.Temperature(n.cold.Pressure, hColdIn+n.duty/n.cold.MassFlowRate)
	if err != nil {
		return err
	}
	n.hot.OutletTemp = tHotOut
	n.cold.OutletTemp = tColdOut
	n.solved = true
	log.WithFields(log.Fields{
		"ntu":           ntu,
		"cr":            cr,
		"effectiveness": n.effectiveness,
		"duty":          n.duty,
	}).Debug("NTU 求解完成")
	return nil
}

// ε-NTU 关系式
func thermalEffectiveness(ntu, cr float64, arrangement string) float64 {
	if cr == 0 {
		return 1 - math.Exp(-ntu)
	}
	switch arrangement {
	case Parallelflow:
		return (1 - math.Exp(-ntu*(1+cr))) / (1 + cr)
	default:
		// 逆流公式，管壳式按逆流近似
		if math.Abs(cr-1) < 1e-12 {
			return ntu / (1 + ntu)
		}
		ex := math.Exp(-ntu * (1 - cr))
		return (1 - ex) / (1 - cr*ex)
	}
}

func (n *NTUExchanger) Effectiveness() float64 {
	return n.effectiveness
}

// 换热量 kW
func (n *NTUExchanger) Duty() float64 {
	return n.duty
}

func (n *NTUExchanger) HotOutlet() float64 {
	return n.hot.OutletTemp
}

func (n *NTUExchanger) ColdOutlet() float64 {
	return n.cold.OutletTemp
}

func (n *NTUExchanger) Solved() bool {
	return n.solved
}
