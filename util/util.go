package util

import (
	"os"

	"golang.org/x/exp/constraints"
)

func ReadFileOrPanic(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		panic("Couldn't read file: " + err.Error())
	}
	return data
}

func Abs[A constraints.Signed](num A) A {
	if num < 0 {
		return -num
	}
	return num
}

func Min[A constraints.Ordered](num1 A, num2 A) A {
	if num1 > num2 {
		return num2
	}
	return num1
}

func Max[A constraints.Ordered](num1 A, num2 A) A {
	if num1 < num2 {
		return num2
	}
	return num1
}
