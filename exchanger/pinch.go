package exchanger

import (
	"math"
	"sort"

	"mshe/model"
)

// 负荷断点去重容差 kW
const loadMergeTol = 1e-3

// 夹点温差
// 合并两条复合曲线的负荷断点，逐点取热冷温度差的最小值
// 只在两条曲线共同覆盖的负荷范围内取值：超出较短一侧终点的区段
// 没有对应的换热，短侧温度被钳位在端点，温差不是物理上的接近温差
// 同时刷新 allLoad / hotTempAll / coldTempAll 供 UA 积分和交叉检查使用
func (e *Exchanger) pinch() float64 {
	e.compositeCurve()

	common := math.Min(e.hotCurve[len(e.hotCurve)-1].Load, e.coldCurve[len(e.coldCurve)-1].Load)

	merged := make([]float64, 0, len(e.hotCurve)+len(e.coldCurve))
	for _, p := range e.hotCurve {
		merged = append(merged, p.Load)
	}
	for _, p := range e.coldCurve {
		merged = append(merged, p.Load)
	}
	sort.Float64s(merged)

	e.allLoad = e.allLoad[:0]
	for _, load := range merged {
		if load > common+loadMergeTol {
			break
		}
		n := len(e.allLoad)
		if n == 0 || load-e.allLoad[n-1] > loadMergeTol {
			e.allLoad = append(e.allLoad, load)
		}
	}

	e.hotTempAll = e.hotTempAll[:0]
	e.coldTempAll = e.coldTempAll[:0]
	minDT := math.MaxFloat64
	for _, load := range e.allLoad {
		hotT := temperatureAtLoad(e.hotCurve, load)
		coldT := temperatureAtLoad(e.coldCurve, load)
		e.hotTempAll = append(e.hotTempAll, hotT)
		e.coldTempAll = append(e.coldTempAll, coldT)
		if dt := hotT - coldT; dt < minDT {
			minDT = dt
		}
	}
	return minDT
}

// 负荷处的曲线温度：先找近似命中的断点，没有再线性插值
func temperatureAtLoad(points []model.CurvePoint, load float64) float64 {
	for i := range points {
		if math.Abs(points[i].Load-load) < loadMergeTol {
			return points[i].Temperature
		}
	}
	return interpolateTemperature(points, load)
}
