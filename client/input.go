package client

import "strings"

// Input 本地输入符号，由外部的键盘采集层产生
type Input int

const (
	InputNone Input = iota
	InputForward
	InputBackward
	InputRotateLeft
	InputRotateRight
	InputFire
)

func (i Input) String() string {
	switch i {
	case InputForward:
		return "forward"
	case InputBackward:
		return "backward"
	case InputRotateLeft:
		return "left"
	case InputRotateRight:
		return "right"
	case InputFire:
		return "fire"
	default:
		return "none"
	}
}

// ParseInput 把文本命令转换为输入符号，未知命令返回 InputNone
// 示例："up" / "forward"、"space" / "fire"
func ParseInput(s string) Input {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "forward":
		return InputForward
	case "down", "backward":
		return InputBackward
	case "left":
		return InputRotateLeft
	case "right":
		return InputRotateRight
	case "space", "fire":
		return InputFire
	default:
		return InputNone
	}
}
