package report

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"mshe/model"
)

// 把冷热复合曲线渲染成 PNG，路径后缀决定输出格式
func SaveCompositeCurve(hot, cold []model.CurvePoint, path string) error {
	p := plot.New()
	p.Title.Text = "Composite Curves"
	p.X.Label.Text = "Heat Load (kW)"
	p.Y.Label.Text = "Temperature (C)"

	hotLine, err := plotter.NewLine(toXYs(hot))
	if err != nil {
		return err
	}
	hotLine.Color = color.RGBA{R: 220, G: 57, B: 18, A: 255}
	coldLine, err := plotter.NewLine(toXYs(cold))
	if err != nil {
		return err
	}
	coldLine.Color = color.RGBA{R: 51, G: 102, B: 204, A: 255}

	p.Add(hotLine, coldLine)
	p.Legend.Add("hot", hotLine)
	p.Legend.Add("cold", coldLine)
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func toXYs(points []model.CurvePoint) plotter.XYs {
	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.Load
		xys[i].Y = pt.Temperature
	}
	return xys
}
