// Package geometry 提供同步核心所需的最小二维向量运算
package geometry

import "math"

// Vector2D 二维坐标/位移
type Vector2D struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Sub 返回 v - o
func (v Vector2D) Sub(o Vector2D) Vector2D {
	return Vector2D{X: v.X - o.X, Y: v.Y - o.Y}
}

// Add 返回 v + o
func (v Vector2D) Add(o Vector2D) Vector2D {
	return Vector2D{X: v.X + o.X, Y: v.Y + o.Y}
}

// Scale 返回 v * k
func (v Vector2D) Scale(k float64) Vector2D {
	return Vector2D{X: v.X * k, Y: v.Y * k}
}

// Norm 欧氏长度
func Norm(v Vector2D) float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance 两点间欧氏距离
func Distance(a, b Vector2D) float64 {
	return Norm(a.Sub(b))
}

// Heading 返回朝向 angle（弧度）上的单位向量
func Heading(angle float64) Vector2D {
	return Vector2D{X: math.Cos(angle), Y: math.Sin(angle)}
}
