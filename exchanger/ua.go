package exchanger

import "math"

const (
	// 两端温差几乎相等时对数平均退化为算术平均
	lmtdDegenerateTol = 1e-4
	// 对数平均温差低于该值的区段不计入，避免夹点附近除法爆炸
	lmtdFloor = 0.01
	// kW → W
	kwToW = 1000
)

// 总 UA（W/K）
// 按合并负荷断点逐区段积分 ΔQ / LMTD
func (e *Exchanger) calculateUA() float64 {
	e.pinch()
	ua := 0.0
	for i := 1; i < len(e.allLoad); i++ {
		dT1 := e.hotTempAll[i-1] - e.coldTempAll[i-1]
		dT2 := e.hotTempAll[i] - e.coldTempAll[i]
		dQ := e.allLoad[i] - e.allLoad[i-1]
		var lmtd float64
		if math.Abs(dT1-dT2) < lmtdDegenerateTol {
			lmtd = (dT1 + dT2) / 2
		} else {
			lmtd = (dT1 - dT2) / math.Log(dT1/dT2)
		}
		if lmtd < lmtdFloor {
			continue
		}
		ua += kwToW * dQ / lmtd
	}
	return ua
}
