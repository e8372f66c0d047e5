/*
Package editor contains the mutable editing model of a rollseq song.

The Model owns the song being edited and its undo/redo history. User
interfaces do not modify the song directly; instead, they call the methods of
the Model and of the TrackModels it hands out, e.g.
model.Track(1).AddEvents(...). Each such call is one logical operation: it
either changes the song and notifies the subscribers exactly once, or changes
nothing and notifies no one.

Undo works on snapshots of the whole song. Before a user edit, the caller
calls model.PushHistory() to save the current state; model.Undo() and
model.Redo() then swap the song with the saved states. The history is also
available as Actions, model.History().Undo() and model.History().Redo(),
which UIs can use to gray out buttons.

All the methods of the Model are safe to call from several goroutines; they
are serialized behind one mutex, and the notifications are delivered after
the mutex has been released, so subscribers may call back into the Model.
*/
package editor
