package exchanger

import (
	"fmt"

	"gopkg.in/ini.v1"
)

var cfg Config

// 求解器数值参数
type Config struct {
	Tolerance       float64 // 残差收敛容差
	JacobiDelta     float64 // 数值雅可比扰动量 ℃
	Damping         float64 // 牛顿步阻尼系数
	MaxIterations   int     // 最大迭代次数
	ExtremeAttempts int     // 最大随机重置次数
	ExtremeEnergy   float64 // 能量比检查容差
	StallLimit      int     // 停滞判定的连续次数
	StallRange      float64 // 停滞判定的步长阈值 ℃
}

func init() {
	file, err := ini.Load("conf/config.ini")
	if err != nil {
		file, err = ini.Load("../conf/config.ini")
	}
	if err != nil {
		fmt.Println("配置文件读取失败，使用默认参数: ", err)
		file = ini.Empty()
	}
	loadCfg(file)
}

func loadCfg(file *ini.File) {
	section := file.Section("solver")
	cfg = Config{
		Tolerance:       section.Key("Tolerance").MustFloat64(1e-3),
		JacobiDelta:     section.Key("JacobiDelta").MustFloat64(1e-4),
		Damping:         section.Key("Damping").MustFloat64(0.5),
		MaxIterations:   section.Key("MaxIterations").MustInt(50000),
		ExtremeAttempts: section.Key("ExtremeAttempts").MustInt(20),
		ExtremeEnergy:   section.Key("ExtremeEnergy").MustFloat64(0.3),
		StallLimit:      section.Key("StallLimit").MustInt(50),
		StallRange:      section.Key("StallRange").MustFloat64(5.0),
	}
}
