package exchanger

import (
	"math"
	"sort"

	"mshe/model"
)

// 复合曲线构建
// 一侧的全部进出口温度排序去重得到温度断点，逐区间累加各流股的折算负荷，
// 得到一条单调不减的 负荷-温度 折线，起点为 (0, 该侧最低温度)

func (e *Exchanger) compositeCurve() {
	e.hotCurve = e.buildCurve(Hot)
	e.coldCurve = e.buildCurve(Cold)
}

func (e *Exchanger) buildCurve(kind StreamKind) []model.CurvePoint {
	tempSet := make(map[float64]struct{})
	for _, s := range e.streams {
		if s.Kind == kind {
			tempSet[s.InletTemp] = struct{}{}
			tempSet[s.OutletTemp] = struct{}{}
		}
	}
	if len(tempSet) == 0 {
		return nil
	}
	temps := make([]float64, 0, len(tempSet))
	for t := range tempSet {
		temps = append(temps, t)
	}
	sort.Float64s(temps)

	curve := []model.CurvePoint{{Load: 0, Temperature: temps[0]}}
	cumulative := 0.0
	for p := 0; p+1 < len(temps); p++ {
		tStart, tEnd := temps[p], temps[p+1]
		interval := 0.0
		for _, s := range e.streams {
			if s.Kind != kind {
				continue
			}
			low := math.Min(s.InletTemp, s.OutletTemp)
			high := math.Max(s.InletTemp, s.OutletTemp)
			// 只有完整覆盖该温度区间的流股才参与
			if tStart >= low && tEnd <= high {
				interval += intervalLoad(s, tStart, tEnd)
			}
		}
		cumulative += interval
		curve = append(curve, model.CurvePoint{Load: cumulative, Temperature: tEnd})
	}
	return curve
}

// 区间负荷按温度跨度对流股总负荷线性折算
func intervalLoad(s *Stream, tStart, tEnd float64) float64 {
	full := math.Abs(s.InletTemp - s.OutletTemp)
	if full < 1e-8 {
		return 0
	}
	return math.Abs(s.load) * (tEnd - tStart) / full
}

// 在曲线上按负荷线性插值温度，正好落在断点上取断点温度，越界时取边界温度
func interpolateTemperature(points []model.CurvePoint, load float64) float64 {
	var below, above *model.CurvePoint
	for i := range points {
		p := &points[i]
		if p.Load <= load {
			below = p
		}
		if p.Load > load && above == nil {
			above = p
		}
	}
	if below == nil {
		return above.Temperature
	}
	if above == nil || below.Load == load {
		return below.Temperature
	}
	frac := (load - below.Load) / (above.Load - below.Load)
	return below.Temperature + frac*(above.Temperature-below.Temperature)
}
