package bvsolver

import qerrors "qfbv/internal/errors"

func widthMismatch(op string) error {
	return qerrors.Newf(qerrors.ErrBadBitwidth, "%s: operand width mismatch", op)
}
