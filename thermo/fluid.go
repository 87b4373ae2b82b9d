package thermo

import "fmt"

// 简化物性包
// 比热容随温度线性变化：h(P, T) = H0 + CpA·T + CpB·T²/2 + Kappa·(P−1)
// 超出物性范围时等同于闪蒸不收敛，必须报错而不是返回 NaN

type Fluid struct {
	Name  string
	CpA   float64 // kJ/(kg·K)
	CpB   float64 // kJ/(kg·K²)
	H0    float64 // 0 ℃ 基准比焓 kJ/kg
	Kappa float64 // 压力修正 kJ/(kg·bara)
	TMin  float64 // 物性范围下限 ℃
	TMax  float64 // 物性范围上限 ℃
}

// 闪蒸失败
type FlashError struct {
	Fluid       string
	Pressure    float64
	Temperature float64
}

func (e *FlashError) Error() string {
	return fmt.Sprintf("闪蒸不收敛: 流体 %s 在 %.2f bara, %.2f ℃ 超出物性范围",
		e.Fluid, e.Pressure, e.Temperature)
}

// 内置流体物性表
var fluids = map[string]Fluid{
	"water":       {Name: "water", CpA: 4.181, CpB: 0.0006, H0: 0.05, Kappa: 0.098, TMin: 0.01, TMax: 370},
	"meg-water":   {Name: "meg-water", CpA: 3.34, CpB: 0.003, H0: 0, Kappa: 0.09, TMin: -40, TMax: 180},
	"natural-gas": {Name: "natural-gas", CpA: 2.34, CpB: 0.0052, H0: 0, Kappa: -0.35, TMin: -160, TMax: 600},
	"air":         {Name: "air", CpA: 1.005, CpB: 0.00019, H0: 0, Kappa: -0.02, TMin: -210, TMax: 1000},
	"methanol":    {Name: "methanol", CpA: 2.51, CpB: 0.0033, H0: 0, Kappa: 0.08, TMin: -97, TMax: 240},
}

// 按名称取内置流体
func NewFluid(name string) (*Fluid, error) {
	f, ok := fluids[name]
	if !ok {
		return nil, fmt.Errorf("未知流体: %s", name)
	}
	return &f, nil
}

// 定比热容流体，用于粗算和测试
func NewConstCpFluid(name string, cp float64) *Fluid {
	return &Fluid{Name: name, CpA: cp, TMin: -273.15, TMax: 5000}
}

// TP 闪蒸：返回比焓 kJ/kg
// 纯函数，雅可比扰动时可以带微调温度重复调用
func (f *Fluid) Enthalpy(pressure, temperature float64) (float64, error) {
	if pressure <= 0 || temperature < f.TMin || temperature > f.TMax {
		return 0, &FlashError{Fluid: f.Name, Pressure: pressure, Temperature: temperature}
	}
	return f.H0 + f.CpA*temperature + f.CpB*temperature*temperature/2 + f.Kappa*(pressure-1), nil
}

// PH 闪蒸：给定压力和比焓反推温度，二分法
// 比热容恒为正，焓对温度单调，区间内必有唯一解
func (f *Fluid) Temperature(pressure, enthalpy float64) (float64, error) {
	lo, hi := f.TMin, f.TMax
	hLo, err := f.Enthalpy(pressure, lo)
	if err != nil {
		return 0, err
	}
	hHi, err := f.Enthalpy(pressure, hi)
	if err != nil {
		return 0, err
	}
	if enthalpy < hLo || enthalpy > hHi {
		return 0, &FlashError{Fluid: f.Name, Pressure: pressure, Temperature: enthalpy / f.CpA}
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		hMid, err := f.Enthalpy(pressure, mid)
		if err != nil {
			return 0, err
		}
		diff := hMid - enthalpy
		if diff < 1e-9 && diff > -1e-9 {
			return mid, nil
		}
		if diff < 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}
