package main

import (
	"bufio"

	"lasertag/client"
)

// inputSink 接收键盘产生的输入符号
type inputSink interface {
	ApplyInput(in client.Input) bool
}

// readKeys 读取原始模式下的终端字节并转发为输入符号；按 q 或输入结束时调用 quit
func readKeys(r *bufio.Reader, sink inputSink, quit func()) {
	defer quit()
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			inputs, q := decodeKeys(buf[:n])
			for _, in := range inputs {
				sink.ApplyInput(in)
			}
			if q {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// decodeKeys 解析一段按键字节，支持方向键的 CSI 序列（ESC [ A..D）。
// Ctrl+C 在原始模式下以 0x03 到达，与 q 一样表示退出。
func decodeKeys(b []byte) (inputs []client.Input, quit bool) {
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c == '\x1b' && i+2 < len(b) && b[i+1] == '[' {
			switch b[i+2] {
			case 'A':
				inputs = append(inputs, client.InputForward)
			case 'B':
				inputs = append(inputs, client.InputBackward)
			case 'C':
				inputs = append(inputs, client.InputRotateRight)
			case 'D':
				inputs = append(inputs, client.InputRotateLeft)
			}
			i += 2
			continue
		}
		switch c {
		case 'q', 'Q', '\x03':
			return inputs, true
		case 'w', 'W':
			inputs = append(inputs, client.InputForward)
		case 's', 'S':
			inputs = append(inputs, client.InputBackward)
		case 'a', 'A':
			inputs = append(inputs, client.InputRotateLeft)
		case 'd', 'D':
			inputs = append(inputs, client.InputRotateRight)
		case ' ':
			inputs = append(inputs, client.InputFire)
		}
	}
	return inputs, false
}
