package rx

func Pipe2[A, B, C any](source Source[A], op1 Operator[A, B], op2 Operator[B, C]) Source[C] {
	return op2(op1(source))
}

func Pipe3[A, B, C, D any](source Source[A], op1 Operator[A, B], op2 Operator[B, C],
	op3 Operator[C, D]) Source[D] {
	return op3(op2(op1(source)))
}

func Pipe4[A, B, C, D, E any](source Source[A], op1 Operator[A, B], op2 Operator[B, C],
	op3 Operator[C, D], op4 Operator[D, E]) Source[E] {
	return op4(op3(op2(op1(source))))
}

func Pipe5[A, B, C, D, E, F any](source Source[A], op1 Operator[A, B], op2 Operator[B, C],
	op3 Operator[C, D], op4 Operator[D, E], op5 Operator[E, F]) Source[F] {
	return op5(op4(op3(op2(op1(source)))))
}

// Compose joins two operators into one.
func Compose[A, B, C any](op1 Operator[A, B], op2 Operator[B, C]) Operator[A, C] {
	return func(source Source[A]) Source[C] {
		return op2(op1(source))
	}
}
