package stubs

// funxyc:class bases=Object
type Str string

func (Str) Add(other Str) Str     { return "" }    // funxyc:method +
func (Str) Len() Int               { return 0 }     // funxyc:method len
func (Str) GetItem(index Int) Str { return "" }    // funxyc:method __getitem__

// funxyc:class bases=Object
type Bytes []byte

func (Bytes) Add(other Bytes) Bytes { return nil } // funxyc:method +
func (Bytes) Len() Int              { return 0 }    // funxyc:method len
