package server

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"mshe/exchanger"
	"mshe/model"
	"mshe/report"
	"mshe/thermo"
)

// Hub 维护一条 websocket 连接上的换热器会话
type Hub struct {
	ex       *exchanger.Exchanger
	conn     *websocket.Conn
	plotPath string // 复合曲线 PNG 输出路径
	// request
	msg chan model.Msg
	// response
	envSet chan model.Msg
	solved chan model.Msg
	curve  chan model.Msg
	// 连接关闭信号
	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		plotPath: "composite_curves.png",
		msg:      make(chan model.Msg, 10),
		envSet:   make(chan model.Msg, 10),
		solved:   make(chan model.Msg, 10),
		curve:    make(chan model.Msg, 10),
		done:     make(chan struct{}),
	}
}

func (h *Hub) handleRequest() {
	for {
		select {
		case <-h.done:
			return
		case msg := <-h.msg:
			switch msg.Type {
			case "env":
				reply := model.Msg{
					Type:    "envSet",
					Content: "env is set",
				}
				if err := h.buildExchanger(msg.Content); err != nil {
					reply.Content = err.Error()
				}
				h.envSet <- reply
			case "solve":
				h.solved <- model.Msg{Type: "solved"}
			case "curve":
				h.curve <- model.Msg{Type: "curve"}
			default:
				log.Println("no such type")
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

func (h *Hub) handleResponse() {
	for {
		select {
		case <-h.done:
			return
		case reply := <-h.envSet:
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.Println("err: ", err)
			}
		case reply := <-h.solved:
			reply.Content = h.solve()
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.Println("err: ", err)
			}
		case reply := <-h.curve:
			reply.Content = h.curves()
			if err := h.conn.WriteJSON(&reply); err != nil {
				log.Println("err: ", err)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// 按前端下发的配置构建换热器
func (h *Hub) buildExchanger(content string) error {
	var env model.Env
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return err
	}
	ex := exchanger.NewExchanger(env.ApproachTemperature)
	if env.UA != nil {
		ex.SetUA(*env.UA)
	}
	if env.Seed != nil {
		ex.SetSeed(*env.Seed)
	}
	for _, sc := range env.Streams {
		fluid, err := thermo.NewFluid(sc.Fluid)
		if err != nil {
			return err
		}
		kind := exchanger.Cold
		if sc.Kind == model.Hot {
			kind = exchanger.Hot
		}
		ex.AddStream(fluid, kind, sc.Pressure, sc.MassFlowRate, sc.InletTemperature, sc.OutletTemperature)
	}
	h.ex = ex
	return nil
}

// 求解并序列化结果，失败时返回错误文本
func (h *Hub) solve() string {
	if h.ex == nil {
		return "env is not set"
	}
	if err := h.ex.Solve(); err != nil {
		return err.Error()
	}
	result := model.SolveResult{
		ID:              h.ex.RunID(),
		Pinch:           h.ex.Pinch(),
		UA:              h.ex.UA(),
		EnergyImbalance: h.ex.EnergyImbalance(),
	}
	for i := 0; i < h.ex.StreamCount(); i++ {
		result.OutletTemps = append(result.OutletTemps, h.ex.OutletTemperature(i))
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err.Error()
	}
	return string(data)
}

func (h *Hub) curves() string {
	if h.ex == nil || !h.ex.Solved() {
		return "not solved yet"
	}
	hot, cold := h.ex.CompositeCurve()
	// 顺手渲染一张报表图，渲染失败不影响曲线数据下发
	if err := report.SaveCompositeCurve(hot, cold, h.plotPath); err != nil {
		log.Println("err: ", err)
	}
	data, err := json.Marshal(map[string][]model.CurvePoint{
		"hot":  hot,
		"cold": cold,
	})
	if err != nil {
		return err.Error()
	}
	return string(data)
}
