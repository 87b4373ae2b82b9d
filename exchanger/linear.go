package exchanger

import (
	"fmt"
	"math"
)

// 行列式小于该阈值视为奇异
const detFloor = 1e-12

// 求解 J·Δx = r
// 最多三阶，直接用克莱姆法则展开，不引入通用消元
func solveLinear(a [][]float64, b []float64) ([]float64, error) {
	switch len(b) {
	case 1:
		if math.Abs(a[0][0]) < detFloor {
			return nil, ErrSingularJacobian
		}
		return []float64{b[0] / a[0][0]}, nil
	case 2:
		det := a[0][0]*a[1][1] - a[0][1]*a[1][0]
		if math.Abs(det) < detFloor {
			return nil, ErrSingularJacobian
		}
		return []float64{
			(b[0]*a[1][1] - b[1]*a[0][1]) / det,
			(a[0][0]*b[1] - a[1][0]*b[0]) / det,
		}, nil
	case 3:
		det := det3(a[0][0], a[0][1], a[0][2],
			a[1][0], a[1][1], a[1][2],
			a[2][0], a[2][1], a[2][2])
		if math.Abs(det) < detFloor {
			return nil, ErrSingularJacobian
		}
		return []float64{
			det3(b[0], a[0][1], a[0][2],
				b[1], a[1][1], a[1][2],
				b[2], a[2][1], a[2][2]) / det,
			det3(a[0][0], b[0], a[0][2],
				a[1][0], b[1], a[1][2],
				a[2][0], b[2], a[2][2]) / det,
			det3(a[0][0], a[0][1], b[0],
				a[1][0], a[1][1], b[1],
				a[2][0], a[2][1], b[2]) / det,
		}, nil
	}
	return nil, fmt.Errorf("不支持的方程组阶数: %d", len(b))
}

func det3(a, b, c, d, e, f, g, h, i float64) float64 {
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}
