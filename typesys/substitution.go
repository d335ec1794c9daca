package typesys

// Substitution maps type parameters to the types bound to them. It is the
// explicit environment threaded through a base-chain walk; each level of
// the chain carries its own.
type Substitution map[*TypeParameter]Type

// Apply replaces bound type parameters in t. Unbound parameters are kept.
func (s Substitution) Apply(t Type) Type {
	if t == nil || len(s) == 0 {
		return t
	}
	return t.substitute(s)
}

// SubstitutionOf returns the bindings carried by t. Parameters of
// lexically enclosing types are included, so for A<int>.B the outer T of A
// is bound to int no matter how B was reached. Non-parameterized types
// carry no bindings.
func SubstitutionOf(t Type) Substitution {
	p, ok := t.(*Parameterized)
	if !ok {
		return nil
	}
	params := p.def.AllTypeParameters()
	s := make(Substitution, len(params))
	for i, tp := range params {
		s[tp] = p.args[i]
	}
	return s
}
